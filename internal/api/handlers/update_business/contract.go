package update_business

import (
	"context"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/service/businesses/models"
)

type BusinessService interface {
	Update(ctx context.Context, id int64, userID int64, role domain.UserRole, req *models.UpdateBusinessRequest) (*models.BusinessResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
