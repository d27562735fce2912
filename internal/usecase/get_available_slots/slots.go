package get_available_slots

import (
	"fmt"
	"time"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/pkg/types"
)

// generateDaySlots генерирует доступные слоты на день.
// Каждый рабочий интервал дня обрабатывается независимо: курсор идёт от начала
// интервала с фиксированным шагом, слот попадает в результат, если целиком
// помещается в интервал, не пересекается с активными бронированиями и (для
// сегодняшней даты) начинается позже минимального запаса времени.
// Интервалы могут пересекаться - дедупликация слотов намеренно не выполняется.
func generateDaySlots(
	day *domain.DayHours,
	durationMinutes int,
	appointments []*domain.Appointment,
	requestDate time.Time,
	now time.Time,
) ([]domain.AvailableSlot, error) {
	if day == nil || day.IsClosed || len(day.Periods) == 0 {
		return []domain.AvailableSlot{}, nil
	}

	// Минимальный допустимый старт слота для бронирований на сегодня
	var minStart *types.TimeString
	if isSameDay(requestDate, now) {
		cutoff, err := types.NewTimeString(now).AddMinutes(domain.SameDayBufferMinutes)
		if err != nil {
			// Запас времени выходит за полночь - сегодня слотов уже нет
			return []domain.AvailableSlot{}, nil
		}
		minStart = &cutoff
	}

	slots := make([]domain.AvailableSlot, 0)

	for i, period := range day.Periods {
		periodSlots, err := generatePeriodSlots(period, periodLabel(period, i), durationMinutes, appointments, minStart)
		if err != nil {
			return nil, err
		}
		slots = append(slots, periodSlots...)
	}

	return slots, nil
}

// generatePeriodSlots генерирует слоты внутри одного рабочего интервала
func generatePeriodSlots(
	period domain.TimePeriod,
	label string,
	durationMinutes int,
	appointments []*domain.Appointment,
	minStart *types.TimeString,
) ([]domain.AvailableSlot, error) {
	slots := make([]domain.AvailableSlot, 0)
	cursor := period.StartTime

	for {
		slotEnd, err := cursor.AddMinutes(durationMinutes)
		if err != nil {
			// Конец слота за полночь - внутри интервала он уже не поместится
			break
		}

		// Слот должен целиком помещаться в интервал
		if slotEnd.IsAfter(period.EndTime) {
			break
		}

		slot := domain.AvailableSlot{
			StartTime:   cursor,
			EndTime:     slotEnd,
			PeriodLabel: label,
		}

		if slotFits(&slot, appointments, minStart) {
			slots = append(slots, slot)
		}

		cursor, err = cursor.AddMinutes(domain.SlotIncrementMinutes)
		if err != nil {
			break
		}
	}

	return slots, nil
}

// slotFits проверяет, что слот проходит фильтры по времени и занятости
func slotFits(slot *domain.AvailableSlot, appointments []*domain.Appointment, minStart *types.TimeString) bool {
	// Для сегодняшней даты слот должен начинаться строго позже минимального времени
	if minStart != nil && !slot.StartTime.IsAfter(*minStart) {
		return false
	}

	// Пересечение проверяется строго: граничное касание интервалов допустимо
	for _, appt := range appointments {
		if !appt.IsBlocking() {
			continue
		}
		if slot.Overlaps(appt.StartTime, appt.EndTime) {
			return false
		}
	}

	return true
}

// periodLabel возвращает название интервала или порядковое имя по умолчанию
func periodLabel(period domain.TimePeriod, index int) string {
	if period.Label != nil && *period.Label != "" {
		return *period.Label
	}
	return fmt.Sprintf("Period %d", index+1)
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
