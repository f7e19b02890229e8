package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusNoShow, false},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusConfirmed, StatusPending, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusNoShow, true},
		{StatusInProgress, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_TerminalStatesRejectEverything(t *testing.T) {
	for _, from := range []BookingStatus{StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, from.IsTerminal())
		assert.Empty(t, AllowedTransitions(from))
		for _, to := range allStatuses {
			err := ValidateTransition(from, to)
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_NoSelfLoops(t *testing.T) {
	for _, s := range allStatuses {
		assert.False(t, CanTransition(s, s), s)
	}
}

func TestAllowedTransitions(t *testing.T) {
	assert.Equal(t, []BookingStatus{StatusConfirmed, StatusCancelled}, AllowedTransitions(StatusPending))
	assert.Equal(t, []BookingStatus{StatusInProgress, StatusCancelled, StatusNoShow}, AllowedTransitions(StatusConfirmed))
}

func TestBookingStatus_Flags(t *testing.T) {
	for _, s := range ActiveStatuses {
		assert.True(t, s.IsActive(), s)
		assert.False(t, s.IsTerminal(), s)
	}
	for _, s := range InactiveStatuses {
		assert.False(t, s.IsActive(), s)
	}
	assert.False(t, BookingStatus("cancelled_by_user").Valid())
}
