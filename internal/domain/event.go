package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventBookingStatusChanged EventType = "booking.status_changed"
)

// AggregateBooking тип агрегата в outbox
const AggregateBooking = "booking"

// OutboxEvent событие, записываемое в outbox в одной транзакции с изменением бронирования
type OutboxEvent struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	TenantID      int64
	EventType     EventType
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// BookingEventPayload тело события для внешних потребителей (уведомления, оплата)
type BookingEventPayload struct {
	BookingID      string      `json:"bookingId"`
	TenantID       int64       `json:"tenantId"`
	ClientID       int64       `json:"clientId"`
	StaffID        *int64      `json:"staffId,omitempty"`
	ScheduledStart time.Time   `json:"scheduledStart"`
	ScheduledEnd   time.Time   `json:"scheduledEnd"`
	ServiceIDs     []int64     `json:"serviceIds"`
	PreviousStatus string      `json:"previousStatus,omitempty"`
	Status         string      `json:"status"`
	Version        int         `json:"version"`
	Reason         *string     `json:"reason,omitempty"`
	Fee            *FeePayload `json:"fee,omitempty"`
	OccurredAt     time.Time   `json:"occurredAt"`
}

// FeePayload штраф в теле события
type FeePayload struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Reason   string  `json:"reason"`
}

// NewBookingCreatedEvent событие создания бронирования
func NewBookingCreatedEvent(b *Booking, now time.Time) (*OutboxEvent, error) {
	payload := newPayload(b, now)
	return newOutboxEvent(b, EventBookingCreated, payload, now)
}

// NewStatusChangedEvent событие смены статуса; b уже содержит новый статус
func NewStatusChangedEvent(b *Booking, previous BookingStatus, fee *Fee, now time.Time) (*OutboxEvent, error) {
	payload := newPayload(b, now)
	payload.PreviousStatus = string(previous)
	payload.Reason = b.CancellationReason
	if fee != nil {
		payload.Fee = &FeePayload{Amount: fee.Amount, Currency: fee.Currency, Reason: string(fee.Reason)}
	}
	return newOutboxEvent(b, EventBookingStatusChanged, payload, now)
}

func newPayload(b *Booking, now time.Time) BookingEventPayload {
	return BookingEventPayload{
		BookingID:      b.ID.String(),
		TenantID:       b.TenantID,
		ClientID:       b.ClientID,
		StaffID:        b.StaffID,
		ScheduledStart: b.ScheduledStart.UTC(),
		ScheduledEnd:   b.ScheduledEnd().UTC(),
		ServiceIDs:     b.ServiceIDs,
		Status:         string(b.Status),
		Version:        b.Version,
		OccurredAt:     now.UTC(),
	}
}

func newOutboxEvent(b *Booking, eventType EventType, payload BookingEventPayload, now time.Time) (*OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("domain: marshal %s payload: %w", eventType, err)
	}
	return &OutboxEvent{
		ID:            uuid.New(),
		AggregateType: AggregateBooking,
		AggregateID:   b.ID.String(),
		TenantID:      b.TenantID,
		EventType:     eventType,
		Payload:       body,
		CreatedAt:     now,
	}, nil
}
