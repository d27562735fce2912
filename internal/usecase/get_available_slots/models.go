package get_available_slots

import (
	"time"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги (определяет длительность слота)
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date       time.Time // Дата, на которую запрашивались слоты
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Slots      []Slot    // Список доступных слотов в порядке генерации
}

// Slot модель доступного временного слота
type Slot struct {
	StartTime   types.TimeString // Время начала слота (например, "10:00")
	EndTime     types.TimeString // Время конца слота (начало + длительность услуги)
	PeriodLabel string           // Название интервала дня (например, "Утро" или "Period 1")
}

func fromDomainSlots(slots []domain.AvailableSlot) []Slot {
	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		result = append(result, Slot{
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			PeriodLabel: s.PeriodLabel,
		})
	}
	return result
}
