package create_service

import (
	"context"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/service/businesses/models"
)

type BusinessService interface {
	CreateService(ctx context.Context, businessID int64, userID int64, role domain.UserRole, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
