package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда окно мастера пересекается с активным бронированием
	// (нарушение ограничения исключения bookings_no_overlap)
	ErrSlotTaken = errors.New("booking.repository: staff window already taken")

	// ErrDuplicateIdempotencyKey возвращается, когда бронирование с таким ключом уже создано
	ErrDuplicateIdempotencyKey = errors.New("booking.repository: duplicate idempotency key")

	// ErrVersionConflict возвращается, когда бронирование изменили параллельно
	ErrVersionConflict = errors.New("booking.repository: version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
