package salonservice

import "errors"

var (
	// ErrTenantNotFound возвращается, когда салон не найден
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге салона
	ErrServiceNotFound = errors.New("service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("salonservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("salonservice client: invalid response")
)
