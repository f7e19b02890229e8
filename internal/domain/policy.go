package domain

import "time"

// TenantPolicy настройки расписания салона.
// Если запись отсутствует, используются значения по умолчанию (NewDefaultTenantPolicy).
type TenantPolicy struct {
	TenantID              int64
	SlotMinutes           int     // шаг сетки слотов
	CancellationFee       float64 // 0 = без штрафов
	FeeCurrency           string
	FreeCancellationHours int
	LateGraceMinutes      int
	AdvanceBookingDays    int // 0 = без ограничения
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewDefaultTenantPolicy политика по умолчанию для салона без настроек
func NewDefaultTenantPolicy(tenantID int64) *TenantPolicy {
	return &TenantPolicy{
		TenantID:              tenantID,
		SlotMinutes:           DefaultSlotMinutes,
		CancellationFee:       DefaultCancellationFee,
		FeeCurrency:           DefaultFeeCurrency,
		FreeCancellationHours: DefaultFreeCancellationHours,
		LateGraceMinutes:      DefaultLateGraceMinutes,
		AdvanceBookingDays:    DefaultAdvanceBookingDays,
	}
}

// Cancellation правило штрафов, построенное из политики
func (p *TenantPolicy) Cancellation() CancellationPolicy {
	return CancellationPolicy{
		FeeAmount:  p.CancellationFee,
		Currency:   p.FeeCurrency,
		FreeWindow: time.Duration(p.FreeCancellationHours) * time.Hour,
		LateGrace:  time.Duration(p.LateGraceMinutes) * time.Minute,
	}
}

// HasAdvanceBookingLimit ограничен ли горизонт бронирования
func (p *TenantPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

// SlotCount количество слотов сетки, покрывающих durationMinutes (округление вверх)
func (p *TenantPolicy) SlotCount(durationMinutes int) int {
	return SlotsFor(durationMinutes, p.SlotMinutes)
}

// SlotsFor ceil(durationMinutes / slotMinutes); 0 при некорректных аргументах
func SlotsFor(durationMinutes, slotMinutes int) int {
	if durationMinutes <= 0 || slotMinutes <= 0 {
		return 0
	}
	return (durationMinutes + slotMinutes - 1) / slotMinutes
}
