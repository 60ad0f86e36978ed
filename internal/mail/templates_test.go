package mail

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chelseasymphony/donations/internal/model"
)

func TestLoadTemplates(t *testing.T) {
	templates, err := LoadTemplates()
	require.NoError(t, err)
	assert.Equal(t, []string{
		DonationConfirmation,
		RecurringDonationConfirmation,
		RecurringDonationWelcome,
	}, templates.Names())
}

func TestRender_DonationConfirmation(t *testing.T) {
	templates, err := LoadTemplates()
	require.NoError(t, err)

	t.Run("incentive kept", func(t *testing.T) {
		subject, body, err := templates.Render(DonationConfirmation, Data{
			FirstName:      "Gustav",
			Amount:         "100.00",
			AdjustedAmount: "50.00",
		})
		require.NoError(t, err)
		assert.Equal(t, "Thank you for your donation to The Chelsea Symphony", subject)
		assert.Contains(t, body, "Hi Gustav!")
		assert.Contains(t, body, "$100.00 contribution")
		assert.Contains(t, body, "You have indicated that you would like your donor incentive")
		assert.Contains(t, body, "was $50.00")
	})

	t.Run("incentive waived", func(t *testing.T) {
		_, body, err := templates.Render(DonationConfirmation, Data{
			FirstName:      "Gustav",
			Amount:         "100.00",
			AdjustedAmount: "100.00",
			Waived:         true,
		})
		require.NoError(t, err)
		assert.Contains(t, body, "would like to waive your donor incentive")
		assert.NotContains(t, body, "would like your donor incentive")
		assert.Contains(t, body, "was $100.00")
	})
}

func TestRender_Recurring(t *testing.T) {
	templates, err := LoadTemplates()
	require.NoError(t, err)

	subject, body, err := templates.Render(RecurringDonationWelcome, Data{FirstName: "Gustav", Amount: "100.00"})
	require.NoError(t, err)
	assert.Equal(t, "Thank you for your recurring donation to The Chelsea Symphony", subject)
	assert.Contains(t, body, "thank you for your recurring $100.00 contribution")

	subject, body, err = templates.Render(RecurringDonationConfirmation, Data{FirstName: "Gustav", Amount: "100.00"})
	require.NoError(t, err)
	assert.Equal(t, "Thank you for your donation to The Chelsea Symphony", subject)
	assert.Contains(t, body, "For your records: Your recurring donation")
	assert.Contains(t, body, "was $100.00")
}

func TestRender_UnknownTemplate(t *testing.T) {
	templates, err := LoadTemplates()
	require.NoError(t, err)

	_, _, err = templates.Render("nope", Data{})
	assert.Error(t, err)
}

func TestParseTemplates_RequiresSubjectAndBody(t *testing.T) {
	fsys := fstest.MapFS{
		"tmpl/broken.tmpl": &fstest.MapFile{Data: []byte(`{{define "body"}}hello{{end}}`)},
		"tmpl/README.md":   &fstest.MapFile{Data: []byte("ignored")},
	}
	_, err := ParseTemplates(fsys, "tmpl")
	assert.ErrorContains(t, err, `missing "subject" block`)

	fsys["tmpl/broken.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "subject"}}Hi{{end}}{{define "body"}}hello{{end}}`)}
	templates, err := ParseTemplates(fsys, "tmpl")
	require.NoError(t, err)
	assert.Equal(t, []string{"broken"}, templates.Names())
}

type failingTransport struct{}

func (failingTransport) Send(context.Context, Message) error {
	return errors.New("relay refused")
}

func TestTemplateNotifier(t *testing.T) {
	templates, err := LoadTemplates()
	require.NoError(t, err)

	t.Run("delivers rendered message", func(t *testing.T) {
		outbox := NewOutbox()
		n := NewTemplateNotifier(templates, outbox, "info@chelseasymphony.org")

		err := n.SendNotification(context.Background(), RecurringDonationWelcome, "email@gmail.com",
			Data{FirstName: "Gustav", Amount: "25.00"})
		require.NoError(t, err)

		msg, ok := outbox.Last()
		require.True(t, ok)
		assert.Equal(t, "info@chelseasymphony.org", msg.From)
		assert.Equal(t, "email@gmail.com", msg.To)
		assert.Equal(t, RecurringDonationWelcome, msg.Template)
		assert.False(t, msg.SentAt.IsZero())

		outbox.Reset()
		assert.Zero(t, outbox.Len())
	})

	t.Run("transport failure is a dispatch error", func(t *testing.T) {
		n := NewTemplateNotifier(templates, failingTransport{}, "info@chelseasymphony.org")
		err := n.SendNotification(context.Background(), DonationConfirmation, "email@gmail.com",
			Data{FirstName: "Gustav", Amount: "3.00", AdjustedAmount: "3.00"})
		assert.ErrorIs(t, err, model.ErrMailDispatch)
	})
}
