package request_password_reset

import (
	"net/http"

	"github.com/bookraft/appointment-service/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingEmail       = "email обязателен"
	// Ответ одинаковый для любого email, чтобы не раскрывать существование аккаунта
	msgResetRequested = "если такой аккаунт существует, письмо для сброса пароля отправлено"
)

// ResetRequest HTTP request model
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetResponse HTTP response model
type ResetResponse struct {
	Message string `json:"message"`
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

// Handle POST /api/v1/auth/password-reset/request
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/password-reset/request - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Email == "" {
		h.logger.Warn("POST /auth/password-reset/request - Missing email")
		handlers.RespondBadRequest(w, msgMissingEmail)
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error("POST /auth/password-reset/request - Failed to request reset: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /auth/password-reset/request - Reset requested: email=%s", req.Email)
	handlers.RespondJSON(w, http.StatusOK, ResetResponse{Message: msgResetRequested})
}
