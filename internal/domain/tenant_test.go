package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffMember_HoursOn(t *testing.T) {
	tenant := &Tenant{WorkingHours: WeekSchedule{
		Monday: DaySchedule{IsOpen: true, OpenTime: "09:00", CloseTime: "17:00"},
	}}

	shared := &StaffMember{ID: 1}
	assert.Equal(t, tenant.WorkingHours.Monday, shared.HoursOn(tenant, time.Monday))
	assert.False(t, shared.HoursOn(tenant, time.Sunday).IsOpen)

	own := &StaffMember{ID: 2, WorkingHours: &WeekSchedule{
		Monday: DaySchedule{IsOpen: true, OpenTime: "12:00", CloseTime: "20:00"},
	}}
	assert.Equal(t, "12:00", own.HoursOn(tenant, time.Monday).OpenTime.String())
}

func TestStaffMember_Performs(t *testing.T) {
	generalist := &StaffMember{ID: 1}
	colorist := &StaffMember{ID: 2, ServiceIDs: []int64{10, 11}}

	assert.True(t, generalist.Performs([]int64{10, 99}))
	assert.True(t, colorist.Performs([]int64{10}))
	assert.True(t, colorist.Performs([]int64{10, 11}))
	assert.False(t, colorist.Performs([]int64{10, 12}))
}

func TestTenant_Location(t *testing.T) {
	loc, err := (&Tenant{}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = (&Tenant{Timezone: "Mars/Olympus"}).Location()
	assert.Error(t, err)
}

func TestNewStatusChangedEvent(t *testing.T) {
	staffID := int64(3)
	reason := "client request"
	b := &Booking{
		ID:                 uuid.New(),
		TenantID:           1,
		ClientID:           42,
		StaffID:            &staffID,
		ScheduledStart:     time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC),
		SlotCount:          1,
		SlotMinutes:        60,
		Status:             StatusCancelled,
		Version:            2,
		CancellationReason: &reason,
	}
	now := time.Date(2026, 5, 19, 12, 0, 0, 0, time.UTC)

	ev, err := NewStatusChangedEvent(b, StatusConfirmed, &Fee{Amount: 25, Currency: "EUR", Reason: FeeReasonLateCancellation}, now)
	require.NoError(t, err)

	assert.Equal(t, EventBookingStatusChanged, ev.EventType)
	assert.Equal(t, b.ID.String(), ev.AggregateID)

	var payload BookingEventPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, "confirmed", payload.PreviousStatus)
	assert.Equal(t, "cancelled", payload.Status)
	assert.Equal(t, 2, payload.Version)
	require.NotNil(t, payload.Fee)
	assert.Equal(t, "late_cancellation", payload.Fee.Reason)
	assert.True(t, b.ScheduledEnd().Equal(payload.ScheduledEnd))
}

func TestEligibleStaff(t *testing.T) {
	staff := []*StaffMember{
		{ID: 1, Active: true},
		{ID: 2, Active: false},
		{ID: 3, Active: true, ServiceIDs: []int64{7}},
		nil,
	}

	ids := func(list []*StaffMember) []int64 {
		out := make([]int64, 0, len(list))
		for _, s := range list {
			out = append(out, s.ID)
		}
		return out
	}

	assert.Equal(t, []int64{1, 3}, ids(EligibleStaff(staff, []int64{7})))
	assert.Equal(t, []int64{1}, ids(EligibleStaff(staff, []int64{7, 8})))
	assert.Equal(t, int64(3), FindStaff(staff, 3).ID)
	assert.Nil(t, FindStaff(staff, 9))
}
