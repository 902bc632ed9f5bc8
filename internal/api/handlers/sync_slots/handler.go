package sync_slots

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

// Handle POST /api/v1/slots/sync
// Вызывается внешним планировщиком для периодической коррекции дрейфа
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SyncFromRemote(r.Context())
	if err != nil {
		h.logger.Error("POST /slots/sync - Sync failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if result.Skipped {
		h.logger.Warn("POST /slots/sync - Sync skipped, calendar unavailable")
	} else {
		h.logger.Info("POST /slots/sync - Sync completed: checked=%d, booked=%d, available=%d",
			result.Checked, result.MarkedBooked, result.MarkedAvailable)
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
