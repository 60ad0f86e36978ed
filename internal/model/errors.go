package model

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrUnclassifiedEvent = errors.New("unclassified event")
	ErrUntrustedSender   = errors.New("untrusted sender")
	ErrMailDispatch      = errors.New("mail dispatch failure")

	// ErrUpstreamUnavailable means the payment processor could not be
	// reached to confirm a notification.
	ErrUpstreamUnavailable = errors.New("payment processor unavailable")

	// ErrTierTable means the configured tiers produced a negative amount.
	ErrTierTable = errors.New("misconfigured donation tier table")
)
