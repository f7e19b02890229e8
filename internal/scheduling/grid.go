package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Grid упорядоченные начала слотов рабочего дня салона с шагом SlotMinutes.
// Индекс слота в Slots используется как ключ в Occupancy.
type Grid struct {
	Slots       []time.Time
	SlotMinutes int
}

// Len количество слотов в сетке
func (g Grid) Len() int {
	return len(g.Slots)
}

// Step шаг сетки
func (g Grid) Step() time.Duration {
	return time.Duration(g.SlotMinutes) * time.Minute
}

// SlotEnd конец слота i, т.е. t_i + g
func (g Grid) SlotEnd(i int) time.Time {
	return g.Slots[i].Add(g.Step())
}

// IndexOf индекс слота, начинающегося ровно в start; false, если start не на сетке
func (g Grid) IndexOf(start time.Time) (int, bool) {
	for i, t := range g.Slots {
		if t.Equal(start) {
			return i, true
		}
	}
	return -1, false
}

// BuildGrid генерирует начала слотов от открытия до (закрытия - g) с шагом g
// в часовом поясе салона. Закрытый день даёт пустую сетку.
//
// Шаг отсчитывается в абсолютном времени, поэтому в день перехода на летнее/зимнее время
// количество слотов соответствует реальной длительности рабочего дня.
func BuildGrid(day time.Time, hours domain.DaySchedule, slotMinutes int, loc *time.Location) (Grid, error) {
	if slotMinutes <= 0 {
		return Grid{}, fmt.Errorf("%w: got %d", ErrInvalidGranularity, slotMinutes)
	}

	grid := Grid{Slots: []time.Time{}, SlotMinutes: slotMinutes}
	if !hours.IsOpen {
		return grid, nil
	}

	open, closeAt, err := dayBounds(day, hours, loc)
	if err != nil {
		return Grid{}, err
	}

	step := grid.Step()
	for t := open; !t.Add(step).After(closeAt); t = t.Add(step) {
		grid.Slots = append(grid.Slots, t)
	}

	return grid, nil
}

// dayBounds переводит HH:MM открытия и закрытия в моменты времени дня day
func dayBounds(day time.Time, hours domain.DaySchedule, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if hours.OpenTime.IsZero() || hours.CloseTime.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: open and close time are required", ErrInvalidWorkingHours)
	}

	open, err := hours.OpenTime.On(day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidWorkingHours, err)
	}
	closeAt, err := hours.CloseTime.On(day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidWorkingHours, err)
	}
	if !open.Before(closeAt) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: open %s is not before close %s",
			ErrInvalidWorkingHours, hours.OpenTime, hours.CloseTime)
	}

	return open, closeAt, nil
}
