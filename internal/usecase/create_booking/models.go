package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	TenantID       int64     // ID салона
	ClientID       int64     // ID клиента
	StaffID        *int64    // Конкретный мастер; nil = любой свободный мастер
	ScheduledStart time.Time // Начало визита, должно совпадать с началом слота сетки
	ServiceIDs     []int64   // Услуги визита, определяют длительность
	IdempotencyKey string    // Обязательный ключ идемпотентности клиента
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking

	// Replayed true, если бронирование с этим ключом уже существовало
	Replayed bool
}
