package clear_slots

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

// Handle DELETE /api/v1/slots
// Удаляет все слоты; события внешнего календаря остаются и удаляются
// отдельно через DELETE /events/{eventId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ClearAllSlots(r.Context())
	if err != nil {
		h.logger.Error("DELETE /slots - Failed to clear slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /slots - Deleted %d slots", result.Deleted)
	handlers.RespondJSON(w, http.StatusOK, result)
}
