package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// MaxListLimit верхняя граница выборки списка бронирований
const MaxListLimit = 500

// Request модели

// GetTenantBookingsRequest запрос на получение бронирований салона
type GetTenantBookingsRequest struct {
	TenantID        int64      `json:"tenantId"`
	Date            *time.Time `json:"date,omitempty"`            // Календарный день (опционально)
	StaffID         *int64     `json:"staffId,omitempty"`         // Фильтр по мастеру (опционально)
	ClientID        *int64     `json:"clientId,omitempty"`        // Фильтр по клиенту (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершённые и отменённые
	Limit           int        `json:"limit,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр (без периода)
func (r *GetTenantBookingsRequest) ToDomainFilter() (domain.TenantBookingsFilter, error) {
	filter := domain.TenantBookingsFilter{
		TenantID:        r.TenantID,
		StaffID:         r.StaffID,
		ClientID:        r.ClientID,
		IncludeInactive: r.IncludeInactive,
		Limit:           r.Limit,
	}

	if r.Limit < 0 || r.Limit > MaxListLimit {
		return filter, errors.New("limit out of range")
	}
	if filter.Limit == 0 {
		filter.Limit = MaxListLimit
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// FeeResponse начисленный штраф
type FeeResponse struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Reason   string  `json:"reason"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string    `json:"id"`
	TenantID        int64     `json:"tenantId"`
	ClientID        int64     `json:"clientId"`
	StaffID         *int64    `json:"staffId,omitempty"`
	AnyStaff        bool      `json:"anyStaff"`
	ScheduledStart  time.Time `json:"scheduledStart"`
	ScheduledEnd    time.Time `json:"scheduledEnd"`
	DurationMinutes int       `json:"durationMinutes"`
	ServiceIDs      []int64   `json:"serviceIds"`
	TotalPrice      float64   `json:"totalPrice"`
	Status          string    `json:"status"`
	Version         int       `json:"version"`

	// AllowedTransitions статусы, в которые бронирование можно перевести сейчас
	AllowedTransitions []string `json:"allowedTransitions"`

	Fee                *FeeResponse `json:"fee,omitempty"`
	CancellationReason *string      `json:"cancellationReason,omitempty"`
	CancelledAt        *string      `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// StatusChangeResponse ответ на смену статуса
type StatusChangeResponse struct {
	Booking        *BookingResponse `json:"booking"`
	PreviousStatus string           `json:"previousStatus"`
	Fee            *FeeResponse     `json:"fee,omitempty"` // Штраф, начисленный этим переходом
}

// Методы конвертации

// FromStatusChange собирает ответ на смену статуса
func FromStatusChange(b *domain.Booking, previous domain.BookingStatus, fee *domain.Fee) *StatusChangeResponse {
	resp := &StatusChangeResponse{
		Booking:        FromDomainBooking(b),
		PreviousStatus: string(previous),
	}
	if fee != nil {
		resp.Fee = &FeeResponse{Amount: fee.Amount, Currency: fee.Currency, Reason: string(fee.Reason)}
	}
	return resp
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	serviceIDs := b.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []int64{}
	}

	resp := &BookingResponse{
		ID:                 b.ID.String(),
		TenantID:           b.TenantID,
		ClientID:           b.ClientID,
		StaffID:            b.StaffID,
		AnyStaff:           b.AnyStaff,
		ScheduledStart:     b.ScheduledStart.UTC(),
		ScheduledEnd:       b.ScheduledEnd().UTC(),
		DurationMinutes:    b.DurationMinutes(),
		ServiceIDs:         serviceIDs,
		TotalPrice:         b.TotalPrice,
		Status:             string(b.Status),
		Version:            b.Version,
		AllowedTransitions: allowedTransitions(b.Status),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.FeeAmount != nil {
		resp.Fee = &FeeResponse{Amount: *b.FeeAmount}
		if b.FeeCurrency != nil {
			resp.Fee.Currency = *b.FeeCurrency
		}
		if b.FeeReason != nil {
			resp.Fee.Reason = *b.FeeReason
		}
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

func allowedTransitions(status domain.BookingStatus) []string {
	next := domain.AllowedTransitions(status)
	out := make([]string, 0, len(next))
	for _, s := range next {
		out = append(out, string(s))
	}
	return out
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
