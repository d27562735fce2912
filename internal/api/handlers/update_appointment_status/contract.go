package update_appointment_status

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/service/appointments/models"
)

type AppointmentService interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest, role domain.UserRole) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
