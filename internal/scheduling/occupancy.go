package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// StaffShift рабочее окно мастера в конкретный день.
// Working=false означает выходной: все слоты сетки вне смены.
type StaffShift struct {
	StaffID int64
	Start   time.Time
	End     time.Time
	Working bool
}

// ShiftFor смена мастера в день day с учётом собственного графика или часов салона
func ShiftFor(staff *domain.StaffMember, tenant *domain.Tenant, day time.Time, loc *time.Location) (StaffShift, error) {
	shift := StaffShift{StaffID: staff.ID}

	hours := staff.HoursOn(tenant, day.In(loc).Weekday())
	if !hours.IsOpen {
		return shift, nil
	}

	start, end, err := dayBounds(day, hours, loc)
	if err != nil {
		return shift, err
	}
	shift.Start, shift.End, shift.Working = start, end, true
	return shift, nil
}

// covers проверяет, что [start, end) целиком внутри смены
func (s StaffShift) covers(start, end time.Time) bool {
	return s.Working && !start.Before(s.Start) && !end.After(s.End)
}

type staffSlots struct {
	booked   []bool
	offShift []bool
}

// Occupancy занятость слотов сетки по мастерам на один день.
// Слот занят, если пересекается с активным бронированием мастера или лежит вне его смены.
type Occupancy struct {
	size    int
	staff   map[int64]*staffSlots
	staffID []int64
}

// BuildOccupancy строит индекс занятости.
// Учитываются только бронирования в статусах pending/confirmed/in_progress с назначенным мастером
// из списка staff; бронирования остальных мастеров игнорируются.
func BuildOccupancy(grid Grid, staff []StaffShift, bookings []*domain.Booking) *Occupancy {
	occ := &Occupancy{
		size:    grid.Len(),
		staff:   make(map[int64]*staffSlots, len(staff)),
		staffID: make([]int64, 0, len(staff)),
	}

	for _, shift := range staff {
		if _, ok := occ.staff[shift.StaffID]; ok {
			continue
		}
		slots := &staffSlots{
			booked:   make([]bool, grid.Len()),
			offShift: make([]bool, grid.Len()),
		}
		for i := range grid.Slots {
			slots.offShift[i] = !shift.covers(grid.Slots[i], grid.SlotEnd(i))
		}
		occ.staff[shift.StaffID] = slots
		occ.staffID = append(occ.staffID, shift.StaffID)
	}
	sort.Slice(occ.staffID, func(a, b int) bool { return occ.staffID[a] < occ.staffID[b] })

	for _, b := range bookings {
		if b == nil || !b.IsActive() || b.StaffID == nil {
			continue
		}
		slots, ok := occ.staff[*b.StaffID]
		if !ok {
			continue
		}
		// [t_i, t_i+g) ∩ [start, end) != ∅
		for i := range grid.Slots {
			if b.Overlaps(grid.Slots[i], grid.SlotEnd(i)) {
				slots.booked[i] = true
			}
		}
	}

	return occ
}

// StaffIDs мастера индекса по возрастанию id
func (o *Occupancy) StaffIDs() []int64 {
	out := make([]int64, len(o.staffID))
	copy(out, o.staffID)
	return out
}

// Has проверяет, что мастер есть в индексе
func (o *Occupancy) Has(staffID int64) bool {
	if o == nil {
		return false
	}
	_, ok := o.staff[staffID]
	return ok
}

// IsFree свободны ли слоты [from, from+count) у мастера
func (o *Occupancy) IsFree(staffID int64, from, count int) bool {
	if o == nil {
		return false
	}
	slots, ok := o.staff[staffID]
	if !ok || count <= 0 || from < 0 || from+count > o.size {
		return false
	}
	for i := from; i < from+count; i++ {
		if slots.booked[i] || slots.offShift[i] {
			return false
		}
	}
	return true
}

// OnShift лежат ли слоты [from, from+count) внутри смены мастера (без учёта бронирований)
func (o *Occupancy) OnShift(staffID int64, from, count int) bool {
	if o == nil {
		return false
	}
	slots, ok := o.staff[staffID]
	if !ok || count <= 0 || from < 0 || from+count > o.size {
		return false
	}
	for i := from; i < from+count; i++ {
		if slots.offShift[i] {
			return false
		}
	}
	return true
}

// occupiedIndices занятые индексы мастера, включая слоты вне смены (для тестов)
func (o *Occupancy) occupiedIndices(staffID int64) []int {
	slots, ok := o.staff[staffID]
	if !ok {
		return nil
	}
	out := make([]int, 0)
	for i := 0; i < o.size; i++ {
		if slots.booked[i] || slots.offShift[i] {
			out = append(out, i)
		}
	}
	return out
}
