package create_business

import (
	"errors"
	"net/http"

	"github.com/bookraft/appointment-service/internal/api/handlers"
	"github.com/bookraft/appointment-service/internal/api/middleware"
	"github.com/bookraft/appointment-service/internal/service/businesses"
	"github.com/bookraft/appointment-service/internal/service/businesses/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "создание бизнеса доступно только владельцам бизнес-аккаунтов"
	msgInvalidInput       = "некорректные данные бизнеса"
)

type Handler struct {
	service BusinessService
	logger  Logger
}

func NewHandler(service BusinessService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /businesses - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetUserRole(r.Context())

	var req models.CreateBusinessRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = userID

	business, err := h.service.Create(r.Context(), &req, role)
	if err != nil {
		switch {
		case errors.Is(err, businesses.ErrAccessDenied):
			h.logger.Warn("POST /businesses - Access denied: user_id=%d, role=%s", userID, role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, businesses.ErrInvalidInput):
			h.logger.Warn("POST /businesses - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /businesses - Failed to create business: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses - Business created successfully: business_id=%d, user_id=%d", business.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, business)
}
