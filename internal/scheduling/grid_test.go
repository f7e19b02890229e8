package scheduling

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

func openDay(open, close string) domain.DaySchedule {
	return domain.DaySchedule{IsOpen: true, OpenTime: types.TimeString(open), CloseTime: types.TimeString(close)}
}

func clock(t *testing.T, grid Grid) []string {
	t.Helper()
	out := make([]string, 0, grid.Len())
	for _, s := range grid.Slots {
		out = append(out, s.Format("15:04"))
	}
	return out
}

func TestBuildGrid(t *testing.T) {
	day := time.Date(2026, 5, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		hours domain.DaySchedule
		g     int
		want  []string
	}{
		{
			name:  "hourly grid",
			hours: openDay("09:00", "17:00"),
			g:     60,
			want:  []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"},
		},
		{
			name:  "last slot must end by close",
			hours: openDay("09:00", "10:40"),
			g:     30,
			want:  []string{"09:00", "09:30", "10:00"},
		},
		{
			name:  "day shorter than one slot",
			hours: openDay("09:00", "09:45"),
			g:     60,
			want:  []string{},
		},
		{
			name:  "closed day",
			hours: domain.DaySchedule{IsOpen: false},
			g:     60,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := BuildGrid(day, tt.hours, tt.g, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, clock(t, grid))
			assert.Equal(t, tt.g, grid.SlotMinutes)
		})
	}
}

func TestBuildGrid_Errors(t *testing.T) {
	day := time.Date(2026, 5, 18, 0, 0, 0, 0, time.UTC)

	_, err := BuildGrid(day, openDay("09:00", "17:00"), 0, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidGranularity)

	_, err = BuildGrid(day, openDay("17:00", "09:00"), 60, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidWorkingHours)

	_, err = BuildGrid(day, domain.DaySchedule{IsOpen: true, OpenTime: "09:00"}, 60, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidWorkingHours)

	_, err = BuildGrid(day, openDay("9am", "17:00"), 60, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidWorkingHours)
}

func TestBuildGrid_TenantTimezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	day := time.Date(2026, 5, 18, 0, 0, 0, 0, berlin)
	grid, err := BuildGrid(day, openDay("09:00", "11:00"), 60, berlin)
	require.NoError(t, err)

	require.Equal(t, 2, grid.Len())
	// CEST = UTC+2
	assert.True(t, grid.Slots[0].Equal(time.Date(2026, 5, 18, 7, 0, 0, 0, time.UTC)))
	assert.Equal(t, berlin, grid.Slots[0].Location())
}

func TestBuildGrid_DaylightSavingDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 29.03.2026 02:00 CET -> 03:00 CEST
	day := time.Date(2026, 3, 29, 0, 0, 0, 0, berlin)
	grid, err := BuildGrid(day, openDay("00:00", "06:00"), 60, berlin)
	require.NoError(t, err)

	assert.Equal(t, []string{"00:00", "01:00", "03:00", "04:00", "05:00"}, clock(t, grid))
}

func TestGrid_IndexOf(t *testing.T) {
	day := time.Date(2026, 5, 18, 0, 0, 0, 0, time.UTC)
	grid, err := BuildGrid(day, openDay("09:00", "12:00"), 60, time.UTC)
	require.NoError(t, err)

	i, ok := grid.IndexOf(time.Date(2026, 5, 18, 10, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = grid.IndexOf(time.Date(2026, 5, 18, 10, 30, 0, 0, time.UTC))
	assert.False(t, ok)

	assert.True(t, grid.SlotEnd(2).Equal(time.Date(2026, 5, 18, 12, 0, 0, 0, time.UTC)))
}
