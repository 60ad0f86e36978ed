package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveEvent("single_donation_signup_equivalent", "notified")
	m.ObserveEvent("single_donation_signup_equivalent", "notified")
	m.ObserveEvent("", "failed")
	m.ObserveMailFailure("donation_confirmation")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("single_donation_signup_equivalent", "notified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("unknown", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mailFailures.WithLabelValues("donation_confirmation")))

	count, err := testutil.GatherAndCount(reg, "donations_ipn_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveEvent("x", "y")
		m.ObserveMailFailure("z")
	})
}
