package list_businesses

import (
	"net/http"

	"github.com/bookraft/appointment-service/internal/api/handlers"
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

// Handle GET /api/v1/businesses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /businesses - Failed to list businesses: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses - Retrieved %d businesses", len(result.Businesses))
	handlers.RespondJSON(w, http.StatusOK, result)
}
