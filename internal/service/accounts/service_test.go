package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
	userRepo "github.com/bookraft/appointment-service/internal/infra/storage/user"
	"github.com/bookraft/appointment-service/internal/infra/tokens"
	"github.com/bookraft/appointment-service/internal/service/accounts/models"
)

// Фейки зависимостей

type fakeUserRepo struct {
	byID    map[int64]*domain.User
	byEmail map[string]*domain.User
	nextID  int64

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[int64]*domain.User{},
		byEmail: map[string]*domain.User{},
		nextID:  1,
	}
}

func (r *fakeUserRepo) add(user *domain.User) *domain.User {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, userRepo.ErrEmailTaken
	}
	created := *user
	created.CreatedAt = time.Now()
	return r.add(&created), nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id int64, firstName, lastName string, phone *string) error {
	user, ok := r.byID[id]
	if !ok {
		return userRepo.ErrUserNotFound
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.PhoneNumber = phone
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	user, ok := r.byID[id]
	if !ok {
		return userRepo.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id int64) error {
	user, ok := r.byID[id]
	if !ok {
		return userRepo.ErrUserNotFound
	}
	user.EmailVerified = true
	return nil
}

type fakeTokenStore struct {
	verification  map[string]int64
	passwordReset map[string]int64
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		verification:  map[string]int64{},
		passwordReset: map[string]int64{},
	}
}

func (s *fakeTokenStore) CreateVerificationToken(_ context.Context, userID int64) (string, error) {
	token := "verify-token"
	s.verification[token] = userID
	return token, nil
}

func (s *fakeTokenStore) ConsumeVerificationToken(_ context.Context, token string) (int64, error) {
	userID, ok := s.verification[token]
	if !ok {
		return 0, tokens.ErrTokenNotFound
	}
	delete(s.verification, token)
	return userID, nil
}

func (s *fakeTokenStore) CreatePasswordResetToken(_ context.Context, userID int64) (string, error) {
	token := "reset-token"
	s.passwordReset[token] = userID
	return token, nil
}

func (s *fakeTokenStore) ConsumePasswordResetToken(_ context.Context, token string) (int64, error) {
	userID, ok := s.passwordReset[token]
	if !ok {
		return 0, tokens.ErrTokenNotFound
	}
	delete(s.passwordReset, token)
	return userID, nil
}

type fakeTokenIssuer struct{}

func (i *fakeTokenIssuer) Issue(userID int64, role string) (string, time.Time, error) {
	return "jwt-token", time.Now().Add(24 * time.Hour), nil
}

type fakeMailPublisher struct {
	messages []mailqueue.MailMessage
	err      error
}

func (p *fakeMailPublisher) Publish(_ context.Context, msg mailqueue.MailMessage) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	service   *Service
	userRepo  *fakeUserRepo
	tokens    *fakeTokenStore
	publisher *fakeMailPublisher
}

func newFixture() *fixture {
	repo := newFakeUserRepo()
	store := newFakeTokenStore()
	publisher := &fakeMailPublisher{}
	svc := NewService(repo, store, &fakeTokenIssuer{}, publisher, 24, 15, nopLogger{})
	return &fixture{service: svc, userRepo: repo, tokens: store, publisher: publisher}
}

func (f *fixture) addUser(email, password string, role domain.UserRole) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return f.userRepo.add(&domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Иван",
		LastName:     "Петров",
		Role:         role,
	})
}

// Тесты

func TestRegister_CreatesClientAndQueuesVerificationMail(t *testing.T) {
	f := newFixture()

	resp, err := f.service.Register(context.Background(), &models.RegisterRequest{
		Email:     "new@example.com",
		Password:  "secret-password",
		FirstName: "Анна",
		LastName:  "Смирнова",
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.Email)
	assert.Equal(t, string(domain.RoleClient), resp.Role)
	assert.False(t, resp.EmailVerified)

	require.Len(t, f.publisher.messages, 1)
	msg := f.publisher.messages[0]
	assert.Equal(t, mailqueue.TypeEmailVerification, msg.Type)
	assert.Equal(t, "new@example.com", msg.To)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	f := newFixture()
	f.addUser("taken@example.com", "password", domain.RoleClient)

	_, err := f.service.Register(context.Background(), &models.RegisterRequest{
		Email:     "taken@example.com",
		Password:  "secret-password",
		FirstName: "Анна",
		LastName:  "Смирнова",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	f := newFixture()

	_, err := f.service.Register(context.Background(), &models.RegisterRequest{
		Email:     "admin@example.com",
		Password:  "secret-password",
		FirstName: "Анна",
		LastName:  "Смирнова",
		Role:      "admin",
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_SucceedsWhenMailQueueIsDown(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker unavailable")

	resp, err := f.service.Register(context.Background(), &models.RegisterRequest{
		Email:     "new@example.com",
		Password:  "secret-password",
		FirstName: "Анна",
		LastName:  "Смирнова",
	})

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestLogin_Success(t *testing.T) {
	f := newFixture()
	user := f.addUser("client@example.com", "correct-password", domain.RoleClient)

	resp, err := f.service.Login(context.Background(), &models.LoginRequest{
		Email:    "client@example.com",
		Password: "correct-password",
	})

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	f := newFixture()
	f.addUser("client@example.com", "correct-password", domain.RoleClient)

	_, errWrongPass := f.service.Login(context.Background(), &models.LoginRequest{
		Email:    "client@example.com",
		Password: "wrong-password",
	})
	_, errUnknown := f.service.Login(context.Background(), &models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "correct-password",
	})

	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
}

func TestChangePassword_RequiresCurrentPassword(t *testing.T) {
	f := newFixture()
	user := f.addUser("client@example.com", "old-password", domain.RoleClient)

	err := f.service.ChangePassword(context.Background(), user.ID, &models.ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "new-password",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = f.service.ChangePassword(context.Background(), user.ID, &models.ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	})
	require.NoError(t, err)

	// Новый пароль действует
	_, err = f.service.Login(context.Background(), &models.LoginRequest{
		Email:    "client@example.com",
		Password: "new-password",
	})
	assert.NoError(t, err)
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	f := newFixture()

	err := f.service.RequestPasswordReset(context.Background(), "ghost@example.com")

	require.NoError(t, err)
	assert.Empty(t, f.publisher.messages)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture()
	f.addUser("client@example.com", "old-password", domain.RoleClient)

	require.NoError(t, f.service.RequestPasswordReset(context.Background(), "client@example.com"))
	require.Len(t, f.publisher.messages, 1)
	assert.Equal(t, mailqueue.TypePasswordReset, f.publisher.messages[0].Type)

	err := f.service.ConfirmPasswordReset(context.Background(), &models.ConfirmPasswordResetRequest{
		Token:       "reset-token",
		NewPassword: "new-password",
	})
	require.NoError(t, err)

	_, err = f.service.Login(context.Background(), &models.LoginRequest{
		Email:    "client@example.com",
		Password: "new-password",
	})
	assert.NoError(t, err)

	// Токен одноразовый
	err = f.service.ConfirmPasswordReset(context.Background(), &models.ConfirmPasswordResetRequest{
		Token:       "reset-token",
		NewPassword: "another-password",
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture()

	resp, err := f.service.Register(context.Background(), &models.RegisterRequest{
		Email:     "new@example.com",
		Password:  "secret-password",
		FirstName: "Анна",
		LastName:  "Смирнова",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.VerifyEmail(context.Background(), "verify-token"))

	profile, err := f.service.GetProfile(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, profile.EmailVerified)

	assert.ErrorIs(t, f.service.VerifyEmail(context.Background(), "verify-token"), ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture()
	user := f.addUser("client@example.com", "password", domain.RoleClient)

	phone := "+79991234567"
	resp, err := f.service.UpdateProfile(context.Background(), user.ID, &models.UpdateProfileRequest{
		FirstName:   "Пётр",
		LastName:    "Иванов",
		PhoneNumber: &phone,
	})

	require.NoError(t, err)
	assert.Equal(t, "Пётр", resp.FirstName)
	assert.Equal(t, "Иванов", resp.LastName)
	require.NotNil(t, resp.PhoneNumber)
	assert.Equal(t, phone, *resp.PhoneNumber)
}

func TestGetProfile_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetProfile(context.Background(), 404)

	assert.ErrorIs(t, err, ErrUserNotFound)
}
