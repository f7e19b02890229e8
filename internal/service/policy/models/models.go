package models

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// UpdatePolicyRequest запрос на обновление политики расписания.
// Все поля опциональны - обновляются только переданные значения
type UpdatePolicyRequest struct {
	SlotMinutes           *int     `json:"slotMinutes,omitempty"`
	CancellationFee       *float64 `json:"cancellationFee,omitempty"`
	FeeCurrency           *string  `json:"feeCurrency,omitempty"`
	FreeCancellationHours *int     `json:"freeCancellationHours,omitempty"`
	LateGraceMinutes      *int     `json:"lateGraceMinutes,omitempty"`
	AdvanceBookingDays    *int     `json:"advanceBookingDays,omitempty"` // 0 = без ограничений
}

// Apply переносит переданные поля в политику
func (r *UpdatePolicyRequest) Apply(p *domain.TenantPolicy) {
	if r.SlotMinutes != nil {
		p.SlotMinutes = *r.SlotMinutes
	}
	if r.CancellationFee != nil {
		p.CancellationFee = *r.CancellationFee
	}
	if r.FeeCurrency != nil {
		p.FeeCurrency = *r.FeeCurrency
	}
	if r.FreeCancellationHours != nil {
		p.FreeCancellationHours = *r.FreeCancellationHours
	}
	if r.LateGraceMinutes != nil {
		p.LateGraceMinutes = *r.LateGraceMinutes
	}
	if r.AdvanceBookingDays != nil {
		p.AdvanceBookingDays = *r.AdvanceBookingDays
	}
}

// PolicyResponse ответ с политикой расписания салона
type PolicyResponse struct {
	TenantID              int64      `json:"tenantId"`
	SlotMinutes           int        `json:"slotMinutes"`
	CancellationFee       float64    `json:"cancellationFee"`
	FeeCurrency           string     `json:"feeCurrency"`
	FreeCancellationHours int        `json:"freeCancellationHours"`
	LateGraceMinutes      int        `json:"lateGraceMinutes"`
	AdvanceBookingDays    int        `json:"advanceBookingDays"`
	IsDefault             bool       `json:"isDefault"` // true, если салон не настраивал политику
	UpdatedAt             *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.TenantPolicy, isDefault bool) *PolicyResponse {
	resp := &PolicyResponse{
		TenantID:              p.TenantID,
		SlotMinutes:           p.SlotMinutes,
		CancellationFee:       p.CancellationFee,
		FeeCurrency:           p.FeeCurrency,
		FreeCancellationHours: p.FreeCancellationHours,
		LateGraceMinutes:      p.LateGraceMinutes,
		AdvanceBookingDays:    p.AdvanceBookingDays,
		IsDefault:             isDefault,
	}
	if !isDefault && !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
