package domain

// Default configuration values
const (
	DefaultSlotMinutes           = 60
	DefaultCancellationFee       = 0.0 // штрафы выключены, пока салон их не настроит
	DefaultFeeCurrency           = "EUR"
	DefaultFreeCancellationHours = 48
	DefaultLateGraceMinutes      = 30
	DefaultAdvanceBookingDays    = 0 // 0 = unlimited
)

// Business validation constants
const (
	MinSlotMinutes              = 5
	MaxSlotMinutes              = 240
	MaxCancellationFee          = 100000.0
	MaxFreeCancellationHours    = 720 // 30 дней
	MaxLateGraceMinutes         = 240
	MaxAdvanceBookingDays       = 365 // 1 year
	MaxServicesPerBooking       = 10
	MaxIdempotencyKeyLength     = 128
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие окно мастера.
// Используется при построении занятости и в ограничении исключения в БД
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// InactiveStatuses статусы, не занимающие окно мастера
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
