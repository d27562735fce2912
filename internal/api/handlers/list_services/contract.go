package list_services

import (
	"context"

	"github.com/bookraft/appointment-service/internal/service/businesses/models"
)

type BusinessService interface {
	ListServices(ctx context.Context, businessID int64, onlyActive bool) (*models.ServiceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
