package policy

import "errors"

var (
	// ErrTenantNotFound возвращается, когда салон не найден
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
