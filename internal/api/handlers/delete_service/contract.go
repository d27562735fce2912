package delete_service

import (
	"context"

	"github.com/bookraft/appointment-service/internal/domain"
)

type BusinessService interface {
	DeleteService(ctx context.Context, serviceID int64, userID int64, role domain.UserRole) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
