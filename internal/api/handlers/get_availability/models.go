package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonScheduler/internal/usecase/get_availability"
)

// SlotResponse слот сетки
type SlotResponse struct {
	StartTime string `json:"startTime"` // RFC3339 в часовом поясе салона
	Time      string `json:"time"`      // "09:00"
	Available bool   `json:"available"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	TenantID        int64          `json:"tenantId"`
	Date            string         `json:"date"`
	Timezone        string         `json:"timezone"`
	StaffID         *int64         `json:"staffId,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	SlotMinutes     int            `json:"slotMinutes"`
	SlotCount       int            `json:"slotCount"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	loc := resp.Date.Location()
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		local := s.StartTime.In(loc)
		slots = append(slots, SlotResponse{
			StartTime: local.Format(time.RFC3339),
			Time:      local.Format(domain.TimeFormat),
			Available: s.Available,
		})
	}

	return &AvailabilityResponse{
		TenantID:        resp.TenantID,
		Date:            resp.Date.Format(domain.DateFormat),
		Timezone:        resp.Timezone,
		StaffID:         resp.StaffID,
		DurationMinutes: resp.DurationMinutes,
		SlotMinutes:     resp.SlotMinutes,
		SlotCount:       resp.SlotCount,
		Slots:           slots,
	}
}
