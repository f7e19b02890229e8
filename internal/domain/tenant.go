package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// Tenant салон: часовой пояс и рабочие часы.
// Все вычисления слотов ведутся в локальном времени салона.
type Tenant struct {
	ID           int64
	Name         string
	Timezone     string // IANA, например Europe/Berlin
	WorkingHours WeekSchedule
}

// Location загружает часовой пояс салона
func (t *Tenant) Location() (*time.Location, error) {
	if t.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(t.Timezone)
}

// DaySchedule рабочие часы на один день недели
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// WeekSchedule рабочие часы по дням недели
type WeekSchedule struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// For возвращает расписание на день недели
func (w WeekSchedule) For(day time.Weekday) DaySchedule {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// StaffMember мастер салона. Мастера независимы друг от друга
type StaffMember struct {
	ID     int64
	Name   string
	Active bool

	// WorkingHours собственный график; nil = часы салона
	WorkingHours *WeekSchedule

	// ServiceIDs услуги, которые оказывает мастер; пусто = все услуги
	ServiceIDs []int64
}

// HoursOn рабочие часы мастера в день недели с учётом графика салона
func (s *StaffMember) HoursOn(tenant *Tenant, day time.Weekday) DaySchedule {
	if s.WorkingHours != nil {
		return s.WorkingHours.For(day)
	}
	return tenant.WorkingHours.For(day)
}

// Performs проверяет, что мастер оказывает все перечисленные услуги
func (s *StaffMember) Performs(serviceIDs []int64) bool {
	if len(s.ServiceIDs) == 0 {
		return true
	}
	offered := make(map[int64]struct{}, len(s.ServiceIDs))
	for _, id := range s.ServiceIDs {
		offered[id] = struct{}{}
	}
	for _, id := range serviceIDs {
		if _, ok := offered[id]; !ok {
			return false
		}
	}
	return true
}

// Service услуга из каталога салона
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           float64
}

// EligibleStaff активные мастера, оказывающие все перечисленные услуги, в исходном порядке
func EligibleStaff(staff []*StaffMember, serviceIDs []int64) []*StaffMember {
	out := make([]*StaffMember, 0, len(staff))
	for _, s := range staff {
		if s != nil && s.Active && s.Performs(serviceIDs) {
			out = append(out, s)
		}
	}
	return out
}

// FindStaff мастер по id или nil
func FindStaff(staff []*StaffMember, id int64) *StaffMember {
	for _, s := range staff {
		if s != nil && s.ID == id {
			return s
		}
	}
	return nil
}
