package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

func TestPlanDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tenant := &domain.Tenant{
		ID:       1,
		Timezone: "Europe/Berlin",
		WorkingHours: domain.WeekSchedule{
			Monday: openDay("09:00", "17:00"),
		},
	}
	late := domain.WeekSchedule{Monday: openDay("13:00", "19:00")}
	staff := []*domain.StaffMember{
		{ID: 2, Active: true, WorkingHours: &late},
		{ID: 1, Active: true},
	}

	// 2026-05-18 is a Monday; the request date carries no zone
	date := time.Date(2026, 5, 18, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 5, 18, 10, 0, 0, 0, berlin)

	grid, occ, err := PlanDay(tenant, staff, date, 60, berlin, []*domain.Booking{
		{StaffID: ptr.Ptr(int64(1)), ScheduledStart: start, SlotCount: 1, SlotMinutes: 60, Status: domain.StatusPending},
	})
	require.NoError(t, err)

	require.Equal(t, 8, grid.Len())
	assert.True(t, grid.Slots[0].Equal(time.Date(2026, 5, 18, 9, 0, 0, 0, berlin)))
	assert.Equal(t, []int64{1, 2}, occ.StaffIDs())

	assert.Equal(t, []int{1}, occ.occupiedIndices(1))
	// staff 2 starts at 13:00; the grid stops at the salon's 17:00 close
	assert.Equal(t, []int{0, 1, 2, 3}, occ.occupiedIndices(2))
}

func TestPlanDay_ClosedDay(t *testing.T) {
	tenant := &domain.Tenant{WorkingHours: domain.WeekSchedule{Monday: openDay("09:00", "17:00")}}
	sunday := time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC)

	grid, occ, err := PlanDay(tenant, []*domain.StaffMember{{ID: 1, Active: true}}, sunday, 60, time.UTC, nil)
	require.NoError(t, err)
	assert.Zero(t, grid.Len())
	assert.True(t, occ.Has(1))
}

func TestDayWindow(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 25.10.2026 has 25 hours in Berlin
	from, to := DayWindow(time.Date(2026, 10, 25, 15, 0, 0, 0, time.UTC), berlin)
	assert.Equal(t, 25*time.Hour, to.Sub(from))
}
