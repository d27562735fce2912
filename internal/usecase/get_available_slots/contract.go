package get_available_slots

import (
	"context"
	"time"

	"github.com/bookraft/appointment-service/internal/domain"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ScheduleRepository интерфейс репозитория рабочих часов
type ScheduleRepository interface {
	// GetDayHours возвращает конфигурацию дня недели (0=понедельник .. 6=воскресенье)
	GetDayHours(ctx context.Context, businessID int64, weekday int) (*domain.DayHours, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// AppointmentRepository интерфейс репозитория бронирований
type AppointmentRepository interface {
	// GetBlockingByBusinessAndDate возвращает бронирования, занимающие время в указанную дату
	GetBlockingByBusinessAndDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
