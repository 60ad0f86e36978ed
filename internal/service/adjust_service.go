package service

import (
	"fmt"

	"github.com/chelseasymphony/donations/internal/model"
)

// DonationTiers is the donor incentive table, ascending by lower bound.
var DonationTiers = []model.Tier{
	{Lower: model.MustAmount("0.00"), Discount: model.MustAmount("0.00")},
	{Lower: model.MustAmount("100.00"), Discount: model.MustAmount("50.00")},
	{Lower: model.MustAmount("250.00"), Discount: model.MustAmount("50.00")},
	{Lower: model.MustAmount("500.00"), Discount: model.MustAmount("100.00")},
	{Lower: model.MustAmount("1000.00"), Discount: model.MustAmount("100.00")},
	{Lower: model.MustAmount("5000.00"), Discount: model.MustAmount("700.00")},
	{Lower: model.MustAmount("30000.00"), Discount: model.MustAmount("1400.00")},
}

func init() {
	if err := ValidateTiers(DonationTiers); err != nil {
		panic(err)
	}
}

// ValidateTiers checks that tiers start at zero and strictly ascend.
func ValidateTiers(tiers []model.Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("%w: empty table", model.ErrTierTable)
	}
	if !tiers[0].Lower.IsZero() {
		return fmt.Errorf("%w: first tier starts at %s", model.ErrTierTable, tiers[0].Lower)
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Lower.Cmp(tiers[i-1].Lower) <= 0 {
			return fmt.Errorf("%w: tier %d lower bound %s does not ascend", model.ErrTierTable, i, tiers[i].Lower)
		}
	}
	return nil
}

// Adjust returns the donation net of the donor incentive. Waived donations
// are returned unchanged.
func Adjust(amount model.Amount, waived bool) (model.Amount, error) {
	return AdjustWith(DonationTiers, amount, waived)
}

func AdjustWith(tiers []model.Tier, amount model.Amount, waived bool) (model.Amount, error) {
	if waived {
		return amount, nil
	}

	tier := tierFor(tiers, amount)
	net := amount.Sub(tier.Discount)
	if net.IsNegative() {
		return model.Amount{}, fmt.Errorf("%w: %s minus %s is negative", model.ErrTierTable, amount, tier.Discount)
	}

	return model.ParseAmount(net.StringFixed(2))
}

// AdjustString is Adjust over the wire representation of an amount.
func AdjustString(raw string, waived bool) (string, error) {
	amount, err := model.ParseAmount(raw)
	if err != nil {
		return "", err
	}
	adjusted, err := Adjust(amount, waived)
	if err != nil {
		return "", err
	}
	return adjusted.String(), nil
}

func tierFor(tiers []model.Tier, amount model.Amount) model.Tier {
	match := tiers[0]
	for _, t := range tiers {
		if amount.Cmp(t.Lower) < 0 {
			break
		}
		match = t
	}
	return match
}
