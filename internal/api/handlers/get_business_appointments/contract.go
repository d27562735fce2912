package get_business_appointments

import (
	"context"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/service/appointments/models"
)

type AppointmentService interface {
	GetBusinessAppointments(ctx context.Context, req *models.GetBusinessAppointmentsRequest, role domain.UserRole) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
