package verify_email

import (
	"errors"
	"net/http"

	"github.com/bookraft/appointment-service/internal/api/handlers"
	"github.com/bookraft/appointment-service/internal/service/accounts"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingToken       = "токен обязателен"
	msgInvalidToken       = "токен не найден или истёк"
	msgUserNotFound       = "пользователь не найден"
)

// VerifyEmailRequest HTTP request model
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// VerifyEmailResponse HTTP response model
type VerifyEmailResponse struct {
	Verified bool `json:"verified"`
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

// Handle POST /api/v1/auth/verify-email
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/verify-email - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Token == "" {
		h.logger.Warn("POST /auth/verify-email - Missing token")
		handlers.RespondBadRequest(w, msgMissingToken)
		return
	}

	if err := h.service.VerifyEmail(r.Context(), req.Token); err != nil {
		switch {
		case errors.Is(err, accounts.ErrInvalidToken):
			h.logger.Warn("POST /auth/verify-email - Invalid token")
			handlers.RespondBadRequest(w, msgInvalidToken)

		case errors.Is(err, accounts.ErrUserNotFound):
			h.logger.Warn("POST /auth/verify-email - User not found")
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("POST /auth/verify-email - Failed to verify email: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auth/verify-email - Email verified successfully")
	handlers.RespondJSON(w, http.StatusOK, VerifyEmailResponse{Verified: true})
}
