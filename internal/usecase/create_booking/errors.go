package create_booking

import "errors"

var (
	// ErrTenantNotFound возвращается, когда салон не найден
	ErrTenantNotFound = errors.New("create_booking: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге салона
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotFound возвращается, когда мастер не найден или неактивен
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrStaffNotQualified возвращается, когда мастер не оказывает выбранные услуги
	ErrStaffNotQualified = errors.New("create_booking: staff member does not perform the selected services")

	// ErrDateInPast возвращается, когда начало визита уже прошло
	ErrDateInPast = errors.New("create_booking: scheduled start is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrTenantClosed возвращается, когда салон закрыт в указанную дату
	ErrTenantClosed = errors.New("create_booking: tenant is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда начало не на сетке, окно не помещается в рабочий день
	// или выходит за смену мастера
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда окно занято у всех подходящих мастеров
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available, refresh availability")

	// ErrIdempotencyKeyReused возвращается, когда ключ уже использован для другого визита
	ErrIdempotencyKeyReused = errors.New("create_booking: idempotency key was used for a different booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
