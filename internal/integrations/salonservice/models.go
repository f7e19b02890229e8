package salonservice

import (
	"fmt"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// Tenant модель салона из SalonService
type Tenant struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Timezone     string       `json:"timezone"`
	WorkingHours WorkingHours `json:"workingHours"`
}

// WorkingHours недельный график
type WorkingHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule график на день; время в формате HH:MM
type DaySchedule struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

// StaffMember мастер салона
type StaffMember struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Active       bool          `json:"active"`
	WorkingHours *WorkingHours `json:"workingHours,omitempty"`
	ServiceIDs   []int64       `json:"serviceIds,omitempty"`
}

// Service услуга каталога
type Service struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// ErrorResponse модель ошибки от SalonService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t *Tenant) toDomain() (*domain.Tenant, error) {
	hours, err := t.WorkingHours.toDomain()
	if err != nil {
		return nil, fmt.Errorf("tenant %d: %w", t.ID, err)
	}
	return &domain.Tenant{
		ID:           t.ID,
		Name:         t.Name,
		Timezone:     t.Timezone,
		WorkingHours: hours,
	}, nil
}

func (s *StaffMember) toDomain() (*domain.StaffMember, error) {
	member := &domain.StaffMember{
		ID:         s.ID,
		Name:       s.Name,
		Active:     s.Active,
		ServiceIDs: s.ServiceIDs,
	}
	if s.WorkingHours != nil {
		hours, err := s.WorkingHours.toDomain()
		if err != nil {
			return nil, fmt.Errorf("staff %d: %w", s.ID, err)
		}
		member.WorkingHours = &hours
	}
	return member, nil
}

func (s *Service) toDomain() *domain.Service {
	return &domain.Service{
		ID:              s.ID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
	}
}

func (w WorkingHours) toDomain() (domain.WeekSchedule, error) {
	var week domain.WeekSchedule
	days := []struct {
		name string
		src  DaySchedule
		dst  *domain.DaySchedule
	}{
		{"monday", w.Monday, &week.Monday},
		{"tuesday", w.Tuesday, &week.Tuesday},
		{"wednesday", w.Wednesday, &week.Wednesday},
		{"thursday", w.Thursday, &week.Thursday},
		{"friday", w.Friday, &week.Friday},
		{"saturday", w.Saturday, &week.Saturday},
		{"sunday", w.Sunday, &week.Sunday},
	}
	for _, d := range days {
		day, err := d.src.toDomain()
		if err != nil {
			return week, fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = day
	}
	return week, nil
}

func (d DaySchedule) toDomain() (domain.DaySchedule, error) {
	if !d.IsOpen || d.OpenTime == nil || d.CloseTime == nil {
		return domain.DaySchedule{IsOpen: false}, nil
	}
	open, err := types.NewTimeStringFromString(*d.OpenTime)
	if err != nil {
		return domain.DaySchedule{}, err
	}
	closeAt, err := types.NewTimeStringFromString(*d.CloseTime)
	if err != nil {
		return domain.DaySchedule{}, err
	}
	return domain.DaySchedule{IsOpen: true, OpenTime: open, CloseTime: closeAt}, nil
}
