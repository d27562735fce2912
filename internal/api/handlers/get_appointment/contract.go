package get_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByID(ctx context.Context, id uuid.UUID, userID int64, role domain.UserRole) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
