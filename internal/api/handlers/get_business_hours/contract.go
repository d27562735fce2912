package get_business_hours

import (
	"context"

	"github.com/bookraft/appointment-service/internal/service/businesses/models"
)

type BusinessService interface {
	GetWeekSchedule(ctx context.Context, businessID int64) (*models.WeekScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
