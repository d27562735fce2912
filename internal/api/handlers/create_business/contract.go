package create_business

import (
	"context"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/service/businesses/models"
)

type BusinessService interface {
	Create(ctx context.Context, req *models.CreateBusinessRequest, role domain.UserRole) (*models.BusinessResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
