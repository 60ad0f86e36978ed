package model

// Tier covers amounts from Lower (inclusive) up to the Lower of the next
// tier (exclusive). The last tier is unbounded.
type Tier struct {
	Lower    Amount
	Discount Amount
}
