package update_business_hours

import (
	"context"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/service/businesses/models"
)

type BusinessService interface {
	UpdateWeekSchedule(ctx context.Context, businessID int64, userID int64, role domain.UserRole, req *models.UpdateHoursRequest) (*models.WeekScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
