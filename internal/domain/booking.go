package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// Valid returns true for a known status value
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsActive returns true if a booking in this status holds its staff window
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusInProgress
}

// IsTerminal returns true if no transition can leave this status
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Booking бронирование клиента у мастера.
// ScheduledStart, SlotCount и SlotMinutes неизменяемы после создания.
type Booking struct {
	ID       uuid.UUID
	TenantID int64
	ClientID int64

	// StaffID назначенный мастер. Всегда заполнен у созданных бронирований,
	// AnyStaff фиксирует, что клиент выбрал "любой мастер"
	StaffID  *int64
	AnyStaff bool

	ScheduledStart time.Time
	SlotCount      int
	SlotMinutes    int

	ServiceIDs []int64
	TotalPrice float64

	Status         BookingStatus
	Version        int
	IdempotencyKey string

	// Штраф, начисленный при переходе в cancelled / no_show / in_progress
	FeeAmount   *float64
	FeeCurrency *string
	FeeReason   *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduledEnd конец полуоткрытого интервала [start, end)
func (b *Booking) ScheduledEnd() time.Time {
	return b.ScheduledStart.Add(time.Duration(b.SlotCount*b.SlotMinutes) * time.Minute)
}

// DurationMinutes длительность бронирования в минутах
func (b *Booking) DurationMinutes() int {
	return b.SlotCount * b.SlotMinutes
}

// IsActive returns true if the booking occupies its staff window
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// Overlaps проверяет пересечение полуоткрытых интервалов [start, end)
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.ScheduledEnd()) && b.ScheduledStart.Before(end)
}

// HasFee returns true if a fee was assessed on the booking
func (b *Booking) HasFee() bool {
	return b.FeeAmount != nil && *b.FeeAmount > 0
}

// TenantBookingsFilter фильтр для получения бронирований салона
type TenantBookingsFilter struct {
	TenantID        int64          // Обязательный параметр
	StaffID         *int64         // Фильтр по мастеру (опционально)
	ClientID        *int64         // Фильтр по клиенту (опционально)
	From            *time.Time     // Начало периода, включительно (опционально)
	To              *time.Time     // Конец периода, не включительно (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать завершённые, отменённые и no-show
	Limit           int            // 0 = без ограничения
}
