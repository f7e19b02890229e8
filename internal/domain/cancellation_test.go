package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidPolicy() CancellationPolicy {
	p := DefaultCancellationPolicy()
	p.FeeAmount = 25
	return p
}

func TestCancellationFee(t *testing.T) {
	start := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	policy := paidPolicy()

	tests := []struct {
		name    string
		before  time.Duration
		charged bool
	}{
		{"72h before start is free", 72 * time.Hour, false},
		{"exactly 48h before start is free", 48 * time.Hour, false},
		{"47h59m before start is charged", 47*time.Hour + 59*time.Minute, true},
		{"30h before start is charged", 30 * time.Hour, true},
		{"at start is charged", 0, true},
		{"after start is charged", -time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := policy.CancellationFee(start, start.Add(-tt.before))
			if !tt.charged {
				assert.Nil(t, fee)
				return
			}
			require.NotNil(t, fee)
			assert.Equal(t, 25.0, fee.Amount)
			assert.Equal(t, "EUR", fee.Currency)
			assert.Equal(t, FeeReasonLateCancellation, fee.Reason)
		})
	}
}

func TestLateArrivalFee(t *testing.T) {
	start := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	policy := paidPolicy()

	assert.Nil(t, policy.LateArrivalFee(start, start.Add(-5*time.Minute)))
	assert.Nil(t, policy.LateArrivalFee(start, start.Add(30*time.Minute)))

	fee := policy.LateArrivalFee(start, start.Add(31*time.Minute))
	require.NotNil(t, fee)
	assert.Equal(t, FeeReasonLateArrival, fee.Reason)
}

func TestFeeDisabledWhenAmountIsZero(t *testing.T) {
	start := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	policy := DefaultCancellationPolicy()

	assert.Nil(t, policy.CancellationFee(start, start.Add(-time.Hour)))
	assert.Nil(t, policy.LateArrivalFee(start, start.Add(2*time.Hour)))
}

func TestTransitionFee(t *testing.T) {
	start := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	b := &Booking{ScheduledStart: start, SlotCount: 1, SlotMinutes: 60}
	policy := paidPolicy()

	assert.NotNil(t, policy.TransitionFee(b, StatusCancelled, start.Add(-time.Hour)))
	assert.Nil(t, policy.TransitionFee(b, StatusCancelled, start.Add(-49*time.Hour)))
	assert.NotNil(t, policy.TransitionFee(b, StatusNoShow, start.Add(45*time.Minute)))
	assert.Nil(t, policy.TransitionFee(b, StatusInProgress, start.Add(10*time.Minute)))
	assert.NotNil(t, policy.TransitionFee(b, StatusInProgress, start.Add(40*time.Minute)))
	assert.Nil(t, policy.TransitionFee(b, StatusConfirmed, start.Add(-time.Hour)))
	assert.Nil(t, policy.TransitionFee(b, StatusCompleted, start.Add(2*time.Hour)))
}

func TestTenantPolicy_Cancellation(t *testing.T) {
	p := NewDefaultTenantPolicy(7)
	p.CancellationFee = 15
	p.FreeCancellationHours = 24

	c := p.Cancellation()
	assert.Equal(t, 24*time.Hour, c.FreeWindow)
	assert.Equal(t, 30*time.Minute, c.LateGrace)
	assert.Equal(t, 15.0, c.FeeAmount)
}

func TestSlotsFor(t *testing.T) {
	assert.Equal(t, 2, SlotsFor(120, 60))
	assert.Equal(t, 2, SlotsFor(90, 60))
	assert.Equal(t, 1, SlotsFor(45, 60))
	assert.Equal(t, 3, SlotsFor(45, 15))
	assert.Equal(t, 0, SlotsFor(0, 60))
	assert.Equal(t, 0, SlotsFor(60, 0))
}

func TestBooking_Window(t *testing.T) {
	start := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	b := &Booking{ScheduledStart: start, SlotCount: 2, SlotMinutes: 60}

	assert.Equal(t, start.Add(2*time.Hour), b.ScheduledEnd())
	assert.Equal(t, 120, b.DurationMinutes())
	assert.True(t, b.Overlaps(start.Add(time.Hour), start.Add(3*time.Hour)))
	assert.False(t, b.Overlaps(start.Add(2*time.Hour), start.Add(3*time.Hour)))
	assert.False(t, b.Overlaps(start.Add(-time.Hour), start))
}

func TestTenantPolicy_HasAdvanceBookingLimit(t *testing.T) {
	p := NewDefaultTenantPolicy(7)
	assert.False(t, p.HasAdvanceBookingLimit())

	p.AdvanceBookingDays = 30
	assert.True(t, p.HasAdvanceBookingLimit())
}
