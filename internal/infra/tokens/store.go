package tokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenStore    = errors.New("token store failure")
)

const (
	verificationPrefix  = "verify:"
	passwordResetPrefix = "reset:"

	tokenBytes = 32
)

// Store хранилище одноразовых токенов в Redis.
// Токен живёт до истечения TTL или до первого использования.
type Store struct {
	client          *redis.Client
	verificationTTL time.Duration
	resetTTL        time.Duration
}

func NewStore(client *redis.Client, verificationTTL, resetTTL time.Duration) *Store {
	return &Store{
		client:          client,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
	}
}

// CreateVerificationToken выпускает токен подтверждения email для пользователя
func (s *Store) CreateVerificationToken(ctx context.Context, userID int64) (string, error) {
	return s.create(ctx, verificationPrefix, userID, s.verificationTTL)
}

// ConsumeVerificationToken возвращает ID пользователя и удаляет токен
func (s *Store) ConsumeVerificationToken(ctx context.Context, token string) (int64, error) {
	return s.consume(ctx, verificationPrefix, token)
}

// CreatePasswordResetToken выпускает токен сброса пароля для пользователя
func (s *Store) CreatePasswordResetToken(ctx context.Context, userID int64) (string, error) {
	return s.create(ctx, passwordResetPrefix, userID, s.resetTTL)
}

// ConsumePasswordResetToken возвращает ID пользователя и удаляет токен
func (s *Store) ConsumePasswordResetToken(ctx context.Context, token string) (int64, error) {
	return s.consume(ctx, passwordResetPrefix, token)
}

func (s *Store) create(ctx context.Context, prefix string, userID int64, ttl time.Duration) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("%w: create - generate: %v", ErrTokenStore, err)
	}

	err = s.client.Set(ctx, prefix+token, userID, ttl).Err()
	if err != nil {
		return "", fmt.Errorf("%w: create - set: %v", ErrTokenStore, err)
	}

	return token, nil
}

func (s *Store) consume(ctx context.Context, prefix string, token string) (int64, error) {
	key := prefix + token

	userID, err := s.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: consume - get: %v", ErrTokenStore, err)
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return 0, fmt.Errorf("%w: consume - del: %v", ErrTokenStore, err)
	}

	return userID, nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
