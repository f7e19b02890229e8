package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition возвращается при недопустимой смене статуса
var ErrInvalidTransition = errors.New("domain: invalid booking status transition")

// allowedTransitions граф жизненного цикла бронирования.
// completed, cancelled и no_show терминальные.
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusInProgress: true,
		StatusCancelled:  true,
		StatusNoShow:     true,
	},
	StatusInProgress: {
		StatusCompleted: true,
		StatusCancelled: true,
		StatusNoShow:    true,
	},
}

// CanTransition сообщает, разрешён ли переход from -> to
func CanTransition(from, to BookingStatus) bool {
	return allowedTransitions[from][to]
}

// ValidateTransition возвращает ErrInvalidTransition с описанием перехода
func ValidateTransition(from, to BookingStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// AllowedTransitions возвращает статусы, в которые можно перейти из from
func AllowedTransitions(from BookingStatus) []BookingStatus {
	order := []BookingStatus{StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow}
	next := make([]BookingStatus, 0, len(order))
	for _, s := range order {
		if allowedTransitions[from][s] {
			next = append(next, s)
		}
	}
	return next
}
