package scheduling

import "errors"

var (
	ErrInvalidGranularity  = errors.New("scheduling: slot granularity must be positive")
	ErrInvalidWorkingHours = errors.New("scheduling: invalid working hours")
	ErrInvalidSlotCount    = errors.New("scheduling: slot count must be positive")
)
