package change_password

import (
	"errors"
	"net/http"

	"github.com/bookraft/appointment-service/internal/api/handlers"
	"github.com/bookraft/appointment-service/internal/api/middleware"
	"github.com/bookraft/appointment-service/internal/service/accounts"
	"github.com/bookraft/appointment-service/internal/service/accounts/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgMissingFields      = "текущий и новый пароль обязательны"
	msgPasswordTooShort   = "пароль должен содержать не менее 8 символов"
	msgWrongPassword      = "текущий пароль указан неверно"
	msgUserNotFound       = "пользователь не найден"
)

const minPasswordLength = 8

// ChangePasswordResponse HTTP response model
type ChangePasswordResponse struct {
	Changed bool `json:"changed"`
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

// Handle PUT /api/v1/profile/password
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /profile/password - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.ChangePasswordRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /profile/password - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		h.logger.Warn("PUT /profile/password - Missing fields: user_id=%d", userID)
		handlers.RespondBadRequest(w, msgMissingFields)
		return
	}

	if len(req.NewPassword) < minPasswordLength {
		h.logger.Warn("PUT /profile/password - Password too short: user_id=%d", userID)
		handlers.RespondBadRequest(w, msgPasswordTooShort)
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, accounts.ErrWrongPassword):
			h.logger.Warn("PUT /profile/password - Wrong current password: user_id=%d", userID)
			handlers.RespondForbidden(w, msgWrongPassword)

		case errors.Is(err, accounts.ErrUserNotFound):
			h.logger.Warn("PUT /profile/password - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("PUT /profile/password - Failed to change password: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /profile/password - Password changed successfully: user_id=%d", userID)
	handlers.RespondJSON(w, http.StatusOK, ChangePasswordResponse{Changed: true})
}
