package service

import (
	"strings"

	"github.com/chelseasymphony/donations/internal/model"
)

const (
	SingleDonationItem    = "Single donation for The Chelsea Symphony"
	RecurringDonationItem = "Recurring donation for The Chelsea Symphony"
)

var (
	singleDonationAmounts    = []string{"50.00", "100.00", "250.00", "500.00", "1000.00", "5000.00"}
	recurringDonationAmounts = []string{"10.00", "15.00", "25.00", "50.00", "100.00", "125.00"}
)

// DonateService builds the donation page: preset amounts and the PayPal
// button fields pointing notifications back at this site.
type DonateService struct {
	merchantEmail string
	siteURL       string
}

func NewDonateService(merchantEmail, siteURL string) *DonateService {
	return &DonateService{merchantEmail: merchantEmail, siteURL: strings.TrimRight(siteURL, "/")}
}

type PresetAmount struct {
	Amount    string `json:"amount"`
	NetAmount string `json:"net_amount"`
}

type DonateOptions struct {
	SingleAmounts    []PresetAmount    `json:"single_amounts"`
	RecurringAmounts []string          `json:"recurring_amounts"`
	SingleButton     map[string]string `json:"single_button"`
	RecurringButton  map[string]string `json:"recurring_button"`
}

func (s *DonateService) Options() (*DonateOptions, error) {
	presets := make([]PresetAmount, 0, len(singleDonationAmounts))
	for _, raw := range singleDonationAmounts {
		net, err := AdjustString(raw, false)
		if err != nil {
			return nil, err
		}
		presets = append(presets, PresetAmount{Amount: raw, NetAmount: net})
	}

	notifyURL := s.siteURL + "/paypal/"
	returnURL := s.siteURL + "/donate/thank-you/"
	cancelURL := s.siteURL + "/donate/"

	return &DonateOptions{
		SingleAmounts:    presets,
		RecurringAmounts: append([]string(nil), recurringDonationAmounts...),
		SingleButton: map[string]string{
			"cmd":           "_donations",
			"business":      s.merchantEmail,
			"amount":        "",
			"no_note":       "1",
			"no_shipping":   "2",
			"item_name":     SingleDonationItem,
			"notify_url":    notifyURL,
			"return":        returnURL,
			"cancel_return": cancelURL,
			"custom":        "",
			"rm":            "1",
		},
		RecurringButton: map[string]string{
			"cmd":           "_xclick-subscriptions",
			"business":      s.merchantEmail,
			"src":           "1",
			"srt":           "24",
			"p3":            "1",
			"t3":            "M",
			"no_note":       "1",
			"no_shipping":   "2",
			"a3":            "",
			"item_name":     RecurringDonationItem,
			"notify_url":    notifyURL,
			"return":        returnURL,
			"cancel_return": cancelURL,
			"custom":        "",
			"rm":            "1",
		},
	}, nil
}

// Preview computes the net amount the donation page shows as a donor types.
func (s *DonateService) Preview(raw string, waived bool) (model.Amount, model.Amount, error) {
	amount, err := model.ParseAmount(raw)
	if err != nil {
		return model.Amount{}, model.Amount{}, err
	}
	net, err := Adjust(amount, waived)
	if err != nil {
		return model.Amount{}, model.Amount{}, err
	}
	return amount, net, nil
}
