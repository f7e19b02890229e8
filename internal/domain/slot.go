package domain

import "time"

// AvailabilitySlot начало слота сетки и признак доступности.
// Вычисляется на лету, не хранится.
type AvailabilitySlot struct {
	StartTime time.Time
	Available bool
}
