package create_appointment

import (
	"fmt"
	"time"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime == "" {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if _, err := req.StartTime.Minutes(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes too long", ErrInvalidInput)
	}

	return nil
}

// validateSlotInSchedule проверяет, что запрошенный интервал целиком помещается
// в один из рабочих интервалов дня и выровнен по сетке генерации слотов
func validateSlotInSchedule(day *domain.DayHours, start, end types.TimeString) error {
	startMin, err := start.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	for _, p := range day.Periods {
		if start.IsBefore(p.StartTime) || end.IsAfter(p.EndTime) {
			continue
		}

		periodStart, err := p.StartTime.Minutes()
		if err != nil {
			continue
		}
		if (startMin-periodStart)%domain.SlotIncrementMinutes == 0 {
			return nil
		}
	}

	return ErrOutsideWorkingHours
}

// validateNotice проверяет минимальный запас времени для бронирований на сегодня
func validateNotice(date time.Time, start types.TimeString, now time.Time) error {
	if !isSameDay(date, now) {
		return nil
	}

	cutoff, err := types.NewTimeString(now).AddMinutes(domain.SameDayBufferMinutes)
	if err != nil {
		// Запас выходит за полночь - сегодня бронирование уже невозможно
		return ErrTooSoon
	}

	if !start.IsAfter(cutoff) {
		return ErrTooSoon
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
