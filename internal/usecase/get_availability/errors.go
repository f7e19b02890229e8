package get_availability

import "errors"

var (
	// ErrTenantNotFound возвращается, когда салон не найден
	ErrTenantNotFound = errors.New("get_availability: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("get_availability: service not found")

	// ErrStaffNotFound возвращается, когда мастер не найден или не работает
	ErrStaffNotFound = errors.New("get_availability: staff member not found")

	// ErrStaffNotQualified возвращается, когда мастер не оказывает выбранные услуги
	ErrStaffNotQualified = errors.New("get_availability: staff member does not perform these services")

	// ErrDateInPast возвращается, когда дата раньше сегодняшней в часовом поясе салона
	ErrDateInPast = errors.New("get_availability: date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("get_availability: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
