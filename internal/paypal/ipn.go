// Package paypal decodes PayPal Instant Payment Notifications and verifies
// them against PayPal's postback endpoint.
package paypal

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/chelseasymphony/donations/internal/model"
)

const (
	TxnTypeWebAccept     = "web_accept"
	TxnTypeSubscrSignup  = "subscr_signup"
	TxnTypeSubscrPayment = "subscr_payment"

	// DefaultCharset is what PayPal uses when the account has no preference.
	DefaultCharset = "windows-1252"

	waiveField = "waive-donor-incentive"
)

var kinds = map[string]model.EventKind{
	TxnTypeWebAccept:     model.KindSingleDonation,
	TxnTypeSubscrSignup:  model.KindRecurringSignup,
	TxnTypeSubscrPayment: model.KindRecurringCharge,
}

// ParseForm decodes a URL-encoded IPN body and transcodes its values from
// the charset the notification declares to UTF-8.
func ParseForm(body []byte) (url.Values, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse ipn body: %w", err)
	}

	charset := values.Get("charset")
	if charset == "" {
		charset = DefaultCharset
	}
	if strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return values, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	dec := enc.NewDecoder()

	out := make(url.Values, len(values))
	for key, vals := range values {
		k, err := dec.String(key)
		if err != nil {
			return nil, fmt.Errorf("decode field name %q: %w", key, err)
		}
		for _, v := range vals {
			s, err := dec.String(v)
			if err != nil {
				return nil, fmt.Errorf("decode field %q: %w", k, err)
			}
			out.Add(k, s)
		}
	}
	return out, nil
}

// ToEvent maps IPN fields onto a payment event. Unrecognised txn_type
// values yield model.KindUnknown with RawKind preserved.
func ToEvent(values url.Values) *model.PaymentEvent {
	rawKind := values.Get("txn_type")

	gross := values.Get("mc_gross")
	if gross == "" && rawKind == TxnTypeSubscrSignup {
		gross = values.Get("mc_amount3")
	}

	txnID := values.Get("txn_id")
	if txnID == "" {
		txnID = values.Get("subscr_id")
	}

	receiver := values.Get("receiver_email")
	if receiver == "" {
		receiver = values.Get("business")
	}

	payload := make(map[string]string, len(values))
	for k := range values {
		payload[k] = values.Get(k)
	}

	return &model.PaymentEvent{
		Kind:          kinds[rawKind],
		RawKind:       rawKind,
		FirstName:     values.Get("first_name"),
		LastName:      values.Get("last_name"),
		PayerEmail:    values.Get("payer_email"),
		Gross:         gross,
		Status:        model.NormalizeStatus(values.Get("payment_status")),
		ReceiverEmail: receiver,
		Waived:        WaivesIncentive(values.Get("custom")),
		TransactionID: txnID,
		Payload:       payload,
		ReceivedAt:    time.Now().UTC(),
	}
}

// WaivesIncentive reads the donation form's custom field, e.g.
// "waive-donor-incentive=yes".
func WaivesIncentive(custom string) bool {
	fields, err := url.ParseQuery(custom)
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(fields.Get(waiveField)), "yes")
}
