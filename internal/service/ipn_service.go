package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chelseasymphony/donations/internal/mail"
	"github.com/chelseasymphony/donations/internal/metrics"
	"github.com/chelseasymphony/donations/internal/model"
)

type Notifier interface {
	SendNotification(ctx context.Context, templateName, recipient string, data mail.Data) error
}

// EventLedger records which events have already produced a notification.
type EventLedger interface {
	Claim(ctx context.Context, ev *model.PaymentEvent) (bool, error)
	Release(ctx context.Context, key model.EventKey) error
	Complete(ctx context.Context, key model.EventKey, outcome model.Outcome) error
}

// ledgerTimeout bounds ledger writes that must outlive the request, such
// as releasing a claim after the send was cancelled.
const ledgerTimeout = 5 * time.Second

type IPNService struct {
	merchantEmail string
	notifier      Notifier
	ledger        EventLedger
	metrics       *metrics.Metrics
}

func NewIPNService(merchantEmail string, notifier Notifier, ledger EventLedger, m *metrics.Metrics) *IPNService {
	return &IPNService{
		merchantEmail: strings.TrimSpace(merchantEmail),
		notifier:      notifier,
		ledger:        ledger,
		metrics:       m,
	}
}

type Result struct {
	Outcome  model.Outcome `json:"outcome"`
	Template string        `json:"template,omitempty"`
	Reason   string        `json:"reason,omitempty"`
}

// Process classifies one verified notification and sends at most one
// email for it. Aborted events come back as OutcomeFailed with an error.
func (s *IPNService) Process(ctx context.Context, ev *model.PaymentEvent) (Result, error) {
	res, err := s.process(ctx, ev)

	s.metrics.ObserveEvent(string(ev.Kind), string(res.Outcome))
	logResult(ev, res, err)

	return res, err
}

func (s *IPNService) process(ctx context.Context, ev *model.PaymentEvent) (Result, error) {
	if !ev.Kind.Valid() {
		return Result{Outcome: model.OutcomeFailed, Reason: "unknown txn_type " + ev.RawKind},
			fmt.Errorf("%w: txn_type %q", model.ErrUnclassifiedEvent, ev.RawKind)
	}

	if ev.Status != model.StatusCompleted && ev.Kind != model.KindRecurringSignup {
		return Result{Outcome: model.OutcomeIgnored, Reason: "payment status " + string(ev.Status)}, nil
	}

	if !strings.EqualFold(strings.TrimSpace(ev.ReceiverEmail), s.merchantEmail) {
		return Result{Outcome: model.OutcomeRejected, Reason: "receiver mismatch"},
			fmt.Errorf("%w: receiver %q", model.ErrUntrustedSender, ev.ReceiverEmail)
	}

	tmpl, data, err := compose(ev)
	if err != nil {
		reason := "malformed amount"
		if errors.Is(err, model.ErrTierTable) {
			reason = "tier table"
		}
		return Result{Outcome: model.OutcomeFailed, Reason: reason}, err
	}

	key := ev.Key()
	dedup := s.ledger != nil && ev.TransactionID != ""
	if dedup {
		claimed, err := s.ledger.Claim(ctx, ev)
		if err != nil {
			return Result{Outcome: model.OutcomeFailed, Template: tmpl, Reason: "ledger unavailable"},
				fmt.Errorf("claim event: %w", err)
		}
		if !claimed {
			return Result{Outcome: model.OutcomeIgnored, Template: tmpl, Reason: "duplicate"}, nil
		}
	}

	if err := s.notifier.SendNotification(ctx, tmpl, ev.PayerEmail, data); err != nil {
		s.metrics.ObserveMailFailure(tmpl)
		if dedup {
			relCtx, cancel := detached(ctx)
			relErr := s.ledger.Release(relCtx, key)
			cancel()
			if relErr != nil {
				log.Error().Err(relErr).Str("key", key.String()).Msg("failed to release ledger claim")
			}
		}
		if !errors.Is(err, model.ErrMailDispatch) {
			err = fmt.Errorf("%w: %v", model.ErrMailDispatch, err)
		}
		return Result{Outcome: model.OutcomeFailed, Template: tmpl, Reason: "mail dispatch"}, err
	}

	if dedup {
		doneCtx, cancel := detached(ctx)
		err := s.ledger.Complete(doneCtx, key, model.OutcomeNotified)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("key", key.String()).Msg("failed to record notified event")
		}
	}

	return Result{Outcome: model.OutcomeNotified, Template: tmpl}, nil
}

// detached keeps ctx values but drops its cancellation, so ledger state
// still converges when the sender hung up mid-request.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), ledgerTimeout)
}

// compose selects the template for a classified event and assembles its
// context. Recurring charges always report the gross amount unadjusted.
func compose(ev *model.PaymentEvent) (string, mail.Data, error) {
	amount, err := model.ParseAmount(ev.Gross)
	if err != nil {
		return "", mail.Data{}, err
	}

	data := mail.Data{
		FirstName:      ev.FirstName,
		LastName:       ev.LastName,
		Amount:         amount.String(),
		AdjustedAmount: amount.String(),
		TransactionID:  ev.TransactionID,
	}

	switch ev.Kind {
	case model.KindRecurringSignup:
		return mail.RecurringDonationWelcome, data, nil
	case model.KindRecurringCharge:
		return mail.RecurringDonationConfirmation, data, nil
	case model.KindSingleDonation:
		adjusted, err := Adjust(amount, ev.Waived)
		if err != nil {
			return "", mail.Data{}, err
		}
		data.Waived = ev.Waived
		data.AdjustedAmount = adjusted.String()
		return mail.DonationConfirmation, data, nil
	}

	return "", mail.Data{}, fmt.Errorf("%w: kind %q", model.ErrUnclassifiedEvent, ev.Kind)
}

func logResult(ev *model.PaymentEvent, res Result, err error) {
	var event *zerolog.Event
	switch {
	case errors.Is(err, model.ErrUntrustedSender):
		event = log.Warn().Str("receiver_email", ev.ReceiverEmail)
	case errors.Is(err, model.ErrUnclassifiedEvent):
		event = log.Warn().Err(err)
	case err != nil:
		event = log.Error().Err(err)
	case res.Outcome == model.OutcomeIgnored:
		event = log.Debug()
	default:
		event = log.Info()
	}

	event.
		Str("txn_id", ev.TransactionID).
		Str("kind", string(ev.Kind)).
		Str("txn_type", ev.RawKind).
		Str("outcome", string(res.Outcome)).
		Str("template", res.Template).
		Str("reason", res.Reason).
		Msg("ipn processed")
}
