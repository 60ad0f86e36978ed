package paypal

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chelseasymphony/donations/internal/model"
)

func TestParseForm_Charset(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"default windows-1252", "first_name=Ren%E9", "René"},
		{"declared windows-1252", "charset=windows-1252&first_name=Ren%E9", "René"},
		{"utf-8 passthrough", "charset=UTF-8&first_name=Ren%C3%A9", "René"},
		{"latin1 alias", "charset=ISO-8859-1&first_name=Ren%E9", "René"},
		{"plain ascii", "first_name=Gustav", "Gustav"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := ParseForm([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, values.Get("first_name"))
		})
	}
}

func TestParseForm_Errors(t *testing.T) {
	_, err := ParseForm([]byte("first_name=%zz"))
	assert.Error(t, err)

	_, err = ParseForm([]byte("charset=klingon&first_name=x"))
	assert.ErrorContains(t, err, "unsupported charset")
}

func TestToEvent(t *testing.T) {
	t.Run("single donation", func(t *testing.T) {
		ev := ToEvent(url.Values{
			"txn_type":       {"web_accept"},
			"first_name":     {"Gustav"},
			"last_name":      {"Mahler"},
			"payer_email":    {"email@gmail.com"},
			"mc_gross":       {"100.00"},
			"payment_status": {"Completed"},
			"receiver_email": {"email-facilitator@gmail.com"},
			"txn_id":         {"TXN1"},
			"custom":         {"waive-donor-incentive=no"},
		})
		assert.Equal(t, model.KindSingleDonation, ev.Kind)
		assert.Equal(t, "web_accept", ev.RawKind)
		assert.Equal(t, "Gustav", ev.FirstName)
		assert.Equal(t, "Mahler", ev.LastName)
		assert.Equal(t, "100.00", ev.Gross)
		assert.Equal(t, model.StatusCompleted, ev.Status)
		assert.Equal(t, "email-facilitator@gmail.com", ev.ReceiverEmail)
		assert.Equal(t, "TXN1", ev.TransactionID)
		assert.False(t, ev.Waived)
		assert.Equal(t, "Gustav", ev.Payload["first_name"])
		assert.False(t, ev.ReceivedAt.IsZero())
	})

	t.Run("signup falls back to subscription fields", func(t *testing.T) {
		ev := ToEvent(url.Values{
			"txn_type":   {"subscr_signup"},
			"mc_amount3": {"25.00"},
			"subscr_id":  {"I-SUB1"},
			"business":   {"email-facilitator@gmail.com"},
		})
		assert.Equal(t, model.KindRecurringSignup, ev.Kind)
		assert.Equal(t, "25.00", ev.Gross)
		assert.Equal(t, "I-SUB1", ev.TransactionID)
		assert.Equal(t, "email-facilitator@gmail.com", ev.ReceiverEmail)
	})

	t.Run("charge keeps txn id over subscription id", func(t *testing.T) {
		ev := ToEvent(url.Values{
			"txn_type":   {"subscr_payment"},
			"mc_gross":   {"25.00"},
			"mc_amount3": {"99.00"},
			"txn_id":     {"TXN2"},
			"subscr_id":  {"I-SUB1"},
		})
		assert.Equal(t, model.KindRecurringCharge, ev.Kind)
		assert.Equal(t, "25.00", ev.Gross)
		assert.Equal(t, "TXN2", ev.TransactionID)
	})

	t.Run("unknown txn_type", func(t *testing.T) {
		ev := ToEvent(url.Values{"txn_type": {"subscr_cancel"}})
		assert.Equal(t, model.KindUnknown, ev.Kind)
		assert.Equal(t, "subscr_cancel", ev.RawKind)
		assert.False(t, ev.Kind.Valid())
	})
}

func TestWaivesIncentive(t *testing.T) {
	tests := map[string]bool{
		"waive-donor-incentive=yes":           true,
		"waive-donor-incentive=YES":           true,
		"waive-donor-incentive=no":            false,
		"waive-donor-incentive=":              false,
		"":                                    false,
		"other=1&waive-donor-incentive=yes":   true,
		"waive-donor-incentive=maybe&other=1": false,
	}
	for custom, want := range tests {
		assert.Equal(t, want, WaivesIncentive(custom), custom)
	}
}
