package businesses

import (
	"context"

	"github.com/bookraft/appointment-service/internal/domain"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) (*domain.Business, error)
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	ListActive(ctx context.Context) ([]*domain.Business, error)
	Update(ctx context.Context, business *domain.Business) error
}

// HoursRepository интерфейс репозитория рабочих часов
type HoursRepository interface {
	GetWeek(ctx context.Context, businessID int64) ([]*domain.DayHours, error)
	ReplaceWeek(ctx context.Context, businessID int64, days []*domain.DayHours) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListByBusiness(ctx context.Context, businessID int64, onlyActive bool) ([]*domain.Service, error)
	Update(ctx context.Context, service *domain.Service) error
	Deactivate(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
