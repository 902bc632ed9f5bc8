package get_slots

import (
	"net/http"

	"github.com/ankudinovm/BDA-SlotService/internal/api/handlers"
)

type Handler struct {
	service SlotsService
	logger  Logger
}

func NewHandler(service SlotsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetMergedSlots(r.Context())
	if err != nil {
		h.logger.Error("GET /slots - Failed to get merged slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /slots - Returned %d slots", len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
