package domain

import "time"

// FeeReason причина начисления штрафа
type FeeReason string

const (
	FeeReasonLateCancellation FeeReason = "late_cancellation"
	FeeReasonLateArrival      FeeReason = "late_arrival"
)

// Fee штраф за позднюю отмену или опоздание
type Fee struct {
	Amount   float64
	Currency string
	Reason   FeeReason
}

// CancellationPolicy правило штрафов салона
type CancellationPolicy struct {
	FeeAmount  float64       // 0 = штрафы отключены
	Currency   string
	FreeWindow time.Duration // отмена не позже чем за FreeWindow до начала бесплатна
	LateGrace  time.Duration // допустимое опоздание
}

// DefaultCancellationPolicy 48 часов на бесплатную отмену, 30 минут на опоздание
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{
		FeeAmount:  DefaultCancellationFee,
		Currency:   DefaultFeeCurrency,
		FreeWindow: DefaultFreeCancellationHours * time.Hour,
		LateGrace:  DefaultLateGraceMinutes * time.Minute,
	}
}

// CancellationFee штраф за отмену в момент now бронирования, начинающегося в start.
// Отмена ровно за FreeWindow ещё бесплатна; отмена после начала тоже платная.
func (p CancellationPolicy) CancellationFee(start, now time.Time) *Fee {
	if start.Sub(now) >= p.FreeWindow {
		return nil
	}
	return p.fee(FeeReasonLateCancellation)
}

// LateArrivalFee штраф за приход клиента в arrival при начале в start.
// Опоздание ровно на LateGrace ещё не штрафуется.
func (p CancellationPolicy) LateArrivalFee(start, arrival time.Time) *Fee {
	if arrival.Sub(start) <= p.LateGrace {
		return nil
	}
	return p.fee(FeeReasonLateArrival)
}

// TransitionFee штраф, который начисляется при переходе бронирования в статус to в момент now
func (p CancellationPolicy) TransitionFee(b *Booking, to BookingStatus, now time.Time) *Fee {
	switch to {
	case StatusCancelled:
		return p.CancellationFee(b.ScheduledStart, now)
	case StatusNoShow, StatusInProgress:
		return p.LateArrivalFee(b.ScheduledStart, now)
	default:
		return nil
	}
}

func (p CancellationPolicy) fee(reason FeeReason) *Fee {
	if p.FeeAmount <= 0 {
		return nil
	}
	return &Fee{Amount: p.FeeAmount, Currency: p.Currency, Reason: reason}
}
