package create_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookraft/appointment-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID   int64            // ID клиента (из access токена)
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	Notes      *string          // Комментарий клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         uuid.UUID        `json:"id"`
	ClientID   int64            `json:"clientId"`
	BusinessID int64            `json:"businessId"`
	ServiceID  int64            `json:"serviceId"`
	Date       time.Time        `json:"date"`
	StartTime  types.TimeString `json:"startTime"`
	EndTime    types.TimeString `json:"endTime"`
	Status     string           `json:"status"`
	Notes      *string          `json:"notes,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}
