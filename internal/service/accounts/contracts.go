package accounts

import (
	"context"
	"time"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string, phone *string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id int64) error
}

// TokenStore интерфейс хранилища одноразовых токенов
type TokenStore interface {
	CreateVerificationToken(ctx context.Context, userID int64) (string, error)
	ConsumeVerificationToken(ctx context.Context, token string) (int64, error)
	CreatePasswordResetToken(ctx context.Context, userID int64) (string, error)
	ConsumePasswordResetToken(ctx context.Context, token string) (int64, error)
}

// TokenIssuer интерфейс выпуска access токенов
type TokenIssuer interface {
	Issue(userID int64, role string) (string, time.Time, error)
}

// MailPublisher интерфейс публикации почтовых сообщений
type MailPublisher interface {
	Publish(ctx context.Context, msg mailqueue.MailMessage) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
