package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/booking"
	policyRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/policy"
)

// Store in-memory хранилище с теми же гарантиями, что дают ограничения PostgreSQL:
// вставка отклоняет пересечение активных бронирований мастера (ErrSlotTaken)
// и повтор ключа идемпотентности (ErrDuplicateIdempotencyKey) атомарно под мьютексом.
// Запись внутри TxManager.Do откатывается, если fn вернула ошибку.
type Store struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*domain.Booking
	events   []*domain.OutboxEvent
	policies map[int64]*domain.TenantPolicy

	// Сбои для тестов неоднозначных ошибок
	FailCreate    error // Create возвращает ошибку без вставки
	FailAfterSave error // Create вставляет и всё равно возвращает ошибку
	FailOutbox    error // Add возвращает ошибку
	FailUpdate    error // UpdateStatus возвращает ошибку
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		bookings: make(map[uuid.UUID]*domain.Booking),
		policies: make(map[int64]*domain.TenantPolicy),
	}
}

func clone(b *domain.Booking) *domain.Booking {
	c := *b
	c.ServiceIDs = append([]int64(nil), b.ServiceIDs...)
	return &c
}

// Create вставка бронирования
func (s *Store) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCreate != nil {
		return nil, s.FailCreate
	}

	for _, existing := range s.bookings {
		if existing.TenantID == b.TenantID && existing.IdempotencyKey == b.IdempotencyKey {
			return nil, bookingRepo.ErrDuplicateIdempotencyKey
		}
	}
	if b.IsActive() && b.StaffID != nil {
		for _, existing := range s.bookings {
			if existing.TenantID == b.TenantID && existing.IsActive() && existing.StaffID != nil &&
				*existing.StaffID == *b.StaffID && existing.Overlaps(b.ScheduledStart, b.ScheduledEnd()) {
				return nil, bookingRepo.ErrSlotTaken
			}
		}
	}

	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	stored := clone(b)
	s.bookings[b.ID] = stored
	journal(ctx, func() {
		delete(s.bookings, stored.ID)
	})

	if s.FailAfterSave != nil {
		return nil, s.FailAfterSave
	}
	return b, nil
}

// GetByID бронирование салона по id
func (s *Store) GetByID(_ context.Context, tenantID int64, id uuid.UUID) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.TenantID != tenantID {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return clone(b), nil
}

// GetByIdempotencyKey бронирование по ключу
func (s *Store) GetByIdempotencyKey(_ context.Context, tenantID int64, key string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.TenantID == tenantID && b.IdempotencyKey == key {
			return clone(b), nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

// ListActive активные бронирования салона, пересекающие [from, to)
func (s *Store) ListActive(_ context.Context, tenantID int64, from, to time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.TenantID == tenantID && b.IsActive() && b.StaffID != nil && b.Overlaps(from, to) {
			out = append(out, clone(b))
		}
	}
	sortBookings(out)
	return out, nil
}

// ListByTenant бронирования салона по фильтру
func (s *Store) ListByTenant(_ context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.TenantID != filter.TenantID {
			continue
		}
		if filter.StaffID != nil && (b.StaffID == nil || *b.StaffID != *filter.StaffID) {
			continue
		}
		if filter.ClientID != nil && b.ClientID != *filter.ClientID {
			continue
		}
		if filter.From != nil && b.ScheduledStart.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !b.ScheduledStart.Before(*filter.To) {
			continue
		}
		if filter.Status != nil {
			if b.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		out = append(out, clone(b))
	}
	sortBookings(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// UpdateStatus оптимистичное обновление по версии
func (s *Store) UpdateStatus(ctx context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpdate != nil {
		return s.FailUpdate
	}

	stored, ok := s.bookings[b.ID]
	if !ok || stored.TenantID != b.TenantID || stored.Version != b.Version {
		return bookingRepo.ErrVersionConflict
	}

	previous := clone(stored)
	b.Version++
	b.UpdatedAt = time.Now()
	s.bookings[b.ID] = clone(b)
	journal(ctx, func() {
		s.bookings[previous.ID] = previous
	})
	return nil
}

// Add запись события outbox
func (s *Store) Add(ctx context.Context, event *domain.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOutbox != nil {
		return s.FailOutbox
	}
	s.events = append(s.events, event)
	journal(ctx, func() {
		for i, e := range s.events {
			if e == event {
				s.events = append(s.events[:i], s.events[i+1:]...)
				return
			}
		}
	})
	return nil
}

// GetByTenant политика салона
func (s *Store) GetByTenant(_ context.Context, tenantID int64) (*domain.TenantPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.policies[tenantID]
	if !ok {
		return nil, policyRepo.ErrPolicyNotFound
	}
	c := *p
	return &c, nil
}

// Upsert сохранение политики
func (s *Store) Upsert(_ context.Context, p *domain.TenantPolicy) (*domain.TenantPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if existing, ok := s.policies[p.TenantID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	c := *p
	s.policies[p.TenantID] = &c
	return p, nil
}

// SetPolicy кладёт политику напрямую
func (s *Store) SetPolicy(p *domain.TenantPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *p
	s.policies[p.TenantID] = &c
}

// Put кладёт бронирование напрямую, минуя проверки
func (s *Store) Put(b *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = clone(b)
}

// Bookings все бронирования, упорядоченные по началу и мастеру
func (s *Store) Bookings() []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, clone(b))
	}
	sortBookings(out)
	return out
}

// Events события outbox в порядке записи
func (s *Store) Events() []*domain.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.OutboxEvent(nil), s.events...)
}

func sortBookings(list []*domain.Booking) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ScheduledStart.Equal(list[j].ScheduledStart) {
			return list[i].ScheduledStart.Before(list[j].ScheduledStart)
		}
		var a, b int64
		if list[i].StaffID != nil {
			a = *list[i].StaffID
		}
		if list[j].StaffID != nil {
			b = *list[j].StaffID
		}
		return a < b
	})
}
