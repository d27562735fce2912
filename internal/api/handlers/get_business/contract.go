package get_business

import (
	"context"

	"github.com/bookraft/appointment-service/internal/service/businesses/models"
)

type BusinessService interface {
	GetByID(ctx context.Context, id int64) (*models.BusinessResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
