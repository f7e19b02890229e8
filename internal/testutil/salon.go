package testutil

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/salonservice"
)

// Salon in-memory SalonService: один салон, его мастера и каталог
type Salon struct {
	mu       sync.Mutex
	Tenant   *domain.Tenant
	Staff    []*domain.StaffMember
	Services map[int64]*domain.Service

	// Err, если задан, возвращается из всех методов
	Err error
}

// NewSalon салон 09:00-17:00 по будням в зоне timezone, мастера 1 и 2, услуги 10 (60 мин) и 11 (45 мин)
func NewSalon(tenantID int64, timezone string) *Salon {
	weekday := domain.DaySchedule{IsOpen: true, OpenTime: "09:00", CloseTime: "17:00"}
	return &Salon{
		Tenant: &domain.Tenant{
			ID:       tenantID,
			Name:     "Test Salon",
			Timezone: timezone,
			WorkingHours: domain.WeekSchedule{
				Monday:    weekday,
				Tuesday:   weekday,
				Wednesday: weekday,
				Thursday:  weekday,
				Friday:    weekday,
			},
		},
		Staff: []*domain.StaffMember{
			{ID: 1, Name: "Anna", Active: true},
			{ID: 2, Name: "Ben", Active: true},
		},
		Services: map[int64]*domain.Service{
			10: {ID: 10, Name: "Haircut", DurationMinutes: 60, Price: 40},
			11: {ID: 11, Name: "Beard trim", DurationMinutes: 45, Price: 20},
		},
	}
}

func (s *Salon) GetTenant(_ context.Context, tenantID int64) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Tenant == nil || s.Tenant.ID != tenantID {
		return nil, salonservice.ErrTenantNotFound
	}
	t := *s.Tenant
	return &t, nil
}

func (s *Salon) ListStaff(_ context.Context, tenantID int64) ([]*domain.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Tenant == nil || s.Tenant.ID != tenantID {
		return nil, salonservice.ErrTenantNotFound
	}
	out := make([]*domain.StaffMember, len(s.Staff))
	copy(out, s.Staff)
	return out, nil
}

func (s *Salon) GetService(_ context.Context, tenantID, serviceID int64) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	svc, ok := s.Services[serviceID]
	if !ok || s.Tenant == nil || s.Tenant.ID != tenantID {
		return nil, salonservice.ErrServiceNotFound
	}
	out := *svc
	return &out, nil
}
