package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Request модель запроса доступности.
// Длительность берётся из ServiceIDs (сумма длительностей услуг), иначе из TotalDurationMinutes.
type Request struct {
	TenantID             int64     // ID салона
	Date                 time.Time // Календарная дата (время и зона игнорируются)
	StaffID              *int64    // Конкретный мастер; nil = любой мастер
	TotalDurationMinutes int       // Длительность визита, если услуги не указаны
	ServiceIDs           []int64   // Услуги визита (опционально)
}

// Response модель ответа: по одному слоту на каждый шаг сетки рабочего дня
type Response struct {
	TenantID        int64
	Date            time.Time // Полночь даты в часовом поясе салона
	Timezone        string
	StaffID         *int64
	DurationMinutes int // Длительность визита
	SlotMinutes     int // Шаг сетки
	SlotCount       int // Сколько подряд идущих слотов занимает визит
	Slots           []domain.AvailabilitySlot
}
