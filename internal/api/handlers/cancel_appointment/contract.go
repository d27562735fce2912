package cancel_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookraft/appointment-service/internal/domain"
)

type AppointmentService interface {
	Cancel(ctx context.Context, id uuid.UUID, userID int64, role domain.UserRole) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
