package model

import (
	"strings"
	"time"
)

type EventKind string

const (
	KindUnknown         EventKind = ""
	KindSingleDonation  EventKind = "single_donation_signup_equivalent"
	KindRecurringSignup EventKind = "recurring_subscription_signup"
	KindRecurringCharge EventKind = "recurring_subscription_charge"
)

func (k EventKind) Valid() bool {
	switch k {
	case KindSingleDonation, KindRecurringSignup, KindRecurringCharge:
		return true
	}
	return false
}

type PaymentStatus string

const StatusCompleted PaymentStatus = "completed"

// NormalizeStatus lowercases a processor status such as "Completed".
func NormalizeStatus(raw string) PaymentStatus {
	return PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
}

// PaymentEvent is one inbound payment notification. It is never mutated
// after decoding.
type PaymentEvent struct {
	Kind          EventKind
	RawKind       string
	FirstName     string
	LastName      string
	PayerEmail    string
	Gross         string
	Status        PaymentStatus
	ReceiverEmail string
	Waived        bool
	TransactionID string
	Payload       map[string]string
	ReceivedAt    time.Time
}

func (e *PaymentEvent) Key() EventKey {
	return EventKey{Kind: e.Kind, TransactionID: e.TransactionID}
}

// EventKey identifies an event for deduplication.
type EventKey struct {
	Kind          EventKind
	TransactionID string
}

func (k EventKey) String() string {
	return string(k.Kind) + ":" + k.TransactionID
}

type Outcome string

const (
	OutcomeIgnored  Outcome = "ignored"
	OutcomeRejected Outcome = "rejected"
	OutcomeNotified Outcome = "notified"
	OutcomeFailed   Outcome = "failed"
)

// IPNRecord is a persisted notification as listed in the admin API.
type IPNRecord struct {
	ID            string     `json:"id"`
	Kind          EventKind  `json:"kind"`
	TransactionID string     `json:"txn_id"`
	PayerEmail    string     `json:"payer_email"`
	Gross         string     `json:"gross"`
	Status        string     `json:"payment_status"`
	Outcome       string     `json:"outcome,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
