package request_password_reset

import "context"

type AccountService interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
