package confirm_password_reset

import (
	"context"

	"github.com/bookraft/appointment-service/internal/service/accounts/models"
)

type AccountService interface {
	ConfirmPasswordReset(ctx context.Context, req *models.ConfirmPasswordResetRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
