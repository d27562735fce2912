package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
	userRepo "github.com/bookraft/appointment-service/internal/infra/storage/user"
	"github.com/bookraft/appointment-service/internal/infra/tokens"
	"github.com/bookraft/appointment-service/internal/service/accounts/models"
)

// Service сервис для работы с учётными записями
type Service struct {
	userRepo            UserRepository
	tokenStore          TokenStore
	tokenIssuer         TokenIssuer
	mailPublisher       MailPublisher
	verificationTTLHrs  int
	passwordResetTTLMin int
	logger              Logger
}

// NewService создает новый экземпляр сервиса учётных записей
func NewService(
	userRepo UserRepository,
	tokenStore TokenStore,
	tokenIssuer TokenIssuer,
	mailPublisher MailPublisher,
	verificationTTLHrs int,
	passwordResetTTLMin int,
	logger Logger,
) *Service {
	return &Service{
		userRepo:            userRepo,
		tokenStore:          tokenStore,
		tokenIssuer:         tokenIssuer,
		mailPublisher:       mailPublisher,
		verificationTTLHrs:  verificationTTLHrs,
		passwordResetTTLMin: passwordResetTTLMin,
		logger:              logger,
	}
}

// Register регистрирует нового пользователя и отправляет письмо с подтверждением email
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	s.logger.Info("Register: registering user email=%s role=%s", req.Email, req.Role)

	role := domain.UserRole(req.Role)
	if req.Role == "" {
		role = domain.RoleClient
	}
	if !domain.ValidRole(role) || role == domain.RoleAdmin {
		s.logger.Warn("Register: invalid role=%s for email=%s", req.Role, req.Email)
		return nil, fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Register: failed to hash password for email=%s: %v", req.Email, err)
		return nil, fmt.Errorf("%w: Register - hash password: %v", ErrInternal, err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		Role:         role,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			s.logger.Warn("Register: email=%s already taken", req.Email)
			return nil, ErrEmailTaken
		}
		s.logger.Error("Register: repository error for email=%s: %v", req.Email, err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	// Письмо с подтверждением отправляется асинхронно через очередь.
	// Ошибка отправки не отменяет регистрацию.
	s.sendVerificationMail(ctx, created)

	s.logger.Info("Register: successfully registered user id=%d email=%s", created.ID, created.Email)
	return models.FromDomainUser(created), nil
}

// Login проверяет учётные данные и выпускает access токен
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	s.logger.Info("Login: login attempt for email=%s", req.Email)

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Login: unknown email=%s", req.Email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: repository error for email=%s: %v", req.Email, err)
		return nil, fmt.Errorf("%w: Login - repository error: %v", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Login: wrong password for user id=%d", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenIssuer.Issue(user.ID, string(user.Role))
	if err != nil {
		s.logger.Error("Login: failed to issue token for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: Login - issue token: %v", ErrInternal, err)
	}

	s.logger.Info("Login: successful login for user id=%d", user.ID)
	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      *models.FromDomainUser(user),
	}, nil
}

// GetProfile возвращает профиль пользователя
func (s *Service) GetProfile(ctx context.Context, userID int64) (*models.UserResponse, error) {
	s.logger.Info("GetProfile: fetching profile for user id=%d", userID)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("GetProfile: user id=%d not found", userID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetProfile: repository error for user id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetProfile - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainUser(user), nil
}

// UpdateProfile обновляет имя и телефон пользователя
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.UserResponse, error) {
	s.logger.Info("UpdateProfile: updating profile for user id=%d", userID)

	err := s.userRepo.UpdateProfile(ctx, userID, req.FirstName, req.LastName, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("UpdateProfile: user id=%d not found", userID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("UpdateProfile: repository error for user id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: UpdateProfile - repository error: %v", ErrInternal, err)
	}

	return s.GetProfile(ctx, userID)
}

// ChangePassword меняет пароль пользователя после проверки текущего
func (s *Service) ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error {
	s.logger.Info("ChangePassword: changing password for user id=%d", userID)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("ChangePassword: user id=%d not found", userID)
			return ErrUserNotFound
		}
		s.logger.Error("ChangePassword: repository error for user id=%d: %v", userID, err)
		return fmt.Errorf("%w: ChangePassword - repository error: %v", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		s.logger.Warn("ChangePassword: wrong current password for user id=%d", userID)
		return ErrWrongPassword
	}

	if err := s.setPassword(ctx, userID, req.NewPassword, "ChangePassword"); err != nil {
		return err
	}

	s.logger.Info("ChangePassword: successfully changed password for user id=%d", userID)
	return nil
}

// RequestPasswordReset отправляет письмо со ссылкой для сброса пароля.
// Для неизвестного email возвращает успех, чтобы не раскрывать существование аккаунта.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	s.logger.Info("RequestPasswordReset: reset requested for email=%s", email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("RequestPasswordReset: unknown email=%s", email)
			return nil
		}
		s.logger.Error("RequestPasswordReset: repository error for email=%s: %v", email, err)
		return fmt.Errorf("%w: RequestPasswordReset - repository error: %v", ErrInternal, err)
	}

	token, err := s.tokenStore.CreatePasswordResetToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("RequestPasswordReset: failed to create token for user id=%d: %v", user.ID, err)
		return fmt.Errorf("%w: RequestPasswordReset - create token: %v", ErrInternal, err)
	}

	msg := mailqueue.MailMessage{
		Type: mailqueue.TypePasswordReset,
		To:   user.Email,
		Data: mailqueue.PasswordResetData{
			Name:       user.FullName(),
			Token:      token,
			TTLMinutes: s.passwordResetTTLMin,
		},
	}
	if err := s.mailPublisher.Publish(ctx, msg); err != nil {
		s.logger.Error("RequestPasswordReset: failed to publish mail for user id=%d: %v", user.ID, err)
		return fmt.Errorf("%w: RequestPasswordReset - publish mail: %v", ErrInternal, err)
	}

	s.logger.Info("RequestPasswordReset: reset mail queued for user id=%d", user.ID)
	return nil
}

// ConfirmPasswordReset устанавливает новый пароль по одноразовому токену
func (s *Service) ConfirmPasswordReset(ctx context.Context, req *models.ConfirmPasswordResetRequest) error {
	s.logger.Info("ConfirmPasswordReset: confirming password reset")

	userID, err := s.tokenStore.ConsumePasswordResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, tokens.ErrTokenNotFound) {
			s.logger.Warn("ConfirmPasswordReset: token not found or expired")
			return ErrInvalidToken
		}
		s.logger.Error("ConfirmPasswordReset: token store error: %v", err)
		return fmt.Errorf("%w: ConfirmPasswordReset - token store: %v", ErrInternal, err)
	}

	if err := s.setPassword(ctx, userID, req.NewPassword, "ConfirmPasswordReset"); err != nil {
		return err
	}

	s.logger.Info("ConfirmPasswordReset: password reset for user id=%d", userID)
	return nil
}

// VerifyEmail подтверждает email по одноразовому токену
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	s.logger.Info("VerifyEmail: verifying email")

	userID, err := s.tokenStore.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, tokens.ErrTokenNotFound) {
			s.logger.Warn("VerifyEmail: token not found or expired")
			return ErrInvalidToken
		}
		s.logger.Error("VerifyEmail: token store error: %v", err)
		return fmt.Errorf("%w: VerifyEmail - token store: %v", ErrInternal, err)
	}

	if err := s.userRepo.MarkEmailVerified(ctx, userID); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("VerifyEmail: user id=%d not found", userID)
			return ErrUserNotFound
		}
		s.logger.Error("VerifyEmail: repository error for user id=%d: %v", userID, err)
		return fmt.Errorf("%w: VerifyEmail - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("VerifyEmail: email verified for user id=%d", userID)
	return nil
}

// Вспомогательные методы

func (s *Service) setPassword(ctx context.Context, userID int64, password string, op string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("%s: failed to hash password for user id=%d: %v", op, userID, err)
		return fmt.Errorf("%w: %s - hash password: %v", ErrInternal, op, err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("%s: user id=%d not found", op, userID)
			return ErrUserNotFound
		}
		s.logger.Error("%s: repository error for user id=%d: %v", op, userID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return nil
}

func (s *Service) sendVerificationMail(ctx context.Context, user *domain.User) {
	token, err := s.tokenStore.CreateVerificationToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("sendVerificationMail: failed to create token for user id=%d: %v", user.ID, err)
		return
	}

	msg := mailqueue.MailMessage{
		Type: mailqueue.TypeEmailVerification,
		To:   user.Email,
		Data: mailqueue.VerificationData{
			Name:     user.FullName(),
			Token:    token,
			TTLHours: s.verificationTTLHrs,
		},
	}
	if err := s.mailPublisher.Publish(ctx, msg); err != nil {
		s.logger.Error("sendVerificationMail: failed to publish mail for user id=%d: %v", user.ID, err)
	}
}
