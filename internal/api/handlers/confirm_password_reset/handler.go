package confirm_password_reset

import (
	"errors"
	"net/http"

	"github.com/bookraft/appointment-service/internal/api/handlers"
	"github.com/bookraft/appointment-service/internal/service/accounts"
	"github.com/bookraft/appointment-service/internal/service/accounts/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingFields      = "токен и новый пароль обязательны"
	msgPasswordTooShort   = "пароль должен содержать не менее 8 символов"
	msgInvalidToken       = "токен не найден или истёк"
)

// minPasswordLength минимальная длина пароля
const minPasswordLength = 8

// ConfirmResetResponse HTTP response model
type ConfirmResetResponse struct {
	Reset bool `json:"reset"`
}

type Handler struct {
	service AccountService
	logger  Logger
}

func NewHandler(service AccountService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/auth/password-reset/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmPasswordResetRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/password-reset/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Token == "" || req.NewPassword == "" {
		h.logger.Warn("POST /auth/password-reset/confirm - Missing fields")
		handlers.RespondBadRequest(w, msgMissingFields)
		return
	}

	if len(req.NewPassword) < minPasswordLength {
		h.logger.Warn("POST /auth/password-reset/confirm - Password too short")
		handlers.RespondBadRequest(w, msgPasswordTooShort)
		return
	}

	if err := h.service.ConfirmPasswordReset(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, accounts.ErrInvalidToken):
			h.logger.Warn("POST /auth/password-reset/confirm - Invalid token")
			handlers.RespondBadRequest(w, msgInvalidToken)

		default:
			h.logger.Error("POST /auth/password-reset/confirm - Failed to reset password: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/password-reset/confirm - Password reset successfully")
	handlers.RespondJSON(w, http.StatusOK, ConfirmResetResponse{Reset: true})
}
