package transition_status

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено в салоне
	ErrBookingNotFound = errors.New("transition_status: booking not found")

	// ErrInvalidTransition возвращается, когда переход запрещён жизненным циклом
	ErrInvalidTransition = errors.New("transition_status: invalid status transition")

	// ErrConcurrentUpdate возвращается, когда бронирование изменили параллельно
	ErrConcurrentUpdate = errors.New("transition_status: booking was modified concurrently, reload and retry")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_status: internal error")
)
