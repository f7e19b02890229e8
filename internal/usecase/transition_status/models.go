package transition_status

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Request модель запроса на смену статуса
type Request struct {
	TenantID  int64
	BookingID uuid.UUID
	Status    domain.BookingStatus // Целевой статус
	Reason    *string              // Причина отмены (опционально)

	// ExpectedVersion версия, которую видел клиент; nil = текущая версия из хранилища
	ExpectedVersion *int
}

// Response модель ответа
type Response struct {
	Booking        *domain.Booking
	PreviousStatus domain.BookingStatus
	Fee            *domain.Fee // nil, если штраф не начислен
}
