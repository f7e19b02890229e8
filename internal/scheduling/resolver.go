package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Resolve возвращает по одному слоту на каждый индекс сетки.
//
// Слот i доступен для конкретного мастера, если слоты [i, i+slotCount) свободны у него;
// для staffID == nil достаточно одного свободного мастера. Окно, выходящее за конец сетки,
// и слоты, начинающиеся раньше notBefore, недоступны.
func Resolve(grid Grid, occ *Occupancy, slotCount int, staffID *int64, notBefore time.Time) ([]domain.AvailabilitySlot, error) {
	if slotCount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSlotCount, slotCount)
	}

	result := make([]domain.AvailabilitySlot, grid.Len())
	for i, start := range grid.Slots {
		result[i] = domain.AvailabilitySlot{StartTime: start}

		if start.Before(notBefore) || i+slotCount > grid.Len() {
			continue
		}

		if staffID != nil {
			result[i].Available = occ.IsFree(*staffID, i, slotCount)
			continue
		}
		result[i].Available = len(FreeStaff(occ, i, slotCount)) > 0
	}

	return result, nil
}

// FreeStaff мастера, у которых свободны слоты [index, index+slotCount), по возрастанию id.
// Используется при бронировании "к любому мастеру" как упорядоченный список кандидатов.
func FreeStaff(occ *Occupancy, index, slotCount int) []int64 {
	free := make([]int64, 0)
	if occ == nil {
		return free
	}
	for _, id := range occ.staffID {
		if occ.IsFree(id, index, slotCount) {
			free = append(free, id)
		}
	}
	return free
}
