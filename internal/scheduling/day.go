package scheduling

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// LocalDay полночь календарной даты date в часовом поясе loc
func LocalDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayWindow [полночь, следующая полночь) дня в зоне loc
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	from := LocalDay(date, loc)
	return from, from.AddDate(0, 0, 1)
}

// ShiftsFor смены мастеров на день
func ShiftsFor(staff []*domain.StaffMember, tenant *domain.Tenant, day time.Time, loc *time.Location) ([]StaffShift, error) {
	shifts := make([]StaffShift, 0, len(staff))
	for _, s := range staff {
		shift, err := ShiftFor(s, tenant, day, loc)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

// PlanDay строит сетку салона и индекс занятости мастеров staff на день day
func PlanDay(tenant *domain.Tenant, staff []*domain.StaffMember, day time.Time, slotMinutes int, loc *time.Location, bookings []*domain.Booking) (Grid, *Occupancy, error) {
	day = LocalDay(day, loc)

	grid, err := BuildGrid(day, tenant.WorkingHours.For(day.Weekday()), slotMinutes, loc)
	if err != nil {
		return Grid{}, nil, err
	}

	shifts, err := ShiftsFor(staff, tenant, day, loc)
	if err != nil {
		return Grid{}, nil, err
	}

	return grid, BuildOccupancy(grid, shifts, bookings), nil
}
