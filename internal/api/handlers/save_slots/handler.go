package save_slots

import (
	"errors"
	"net/http"

	"github.com/ankudinovm/BDA-SlotService/internal/api/handlers"
	"github.com/ankudinovm/BDA-SlotService/internal/service/slots"
	"github.com/ankudinovm/BDA-SlotService/internal/service/slots/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlots       = "некорректные данные слотов"
	msgEmptySlots         = "список слотов пуст"
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

// Handle PUT /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.SaveSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if len(req.Slots) == 0 {
		handlers.RespondBadRequest(w, msgEmptySlots)
		return
	}

	result, err := h.service.SaveSlots(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("PUT /slots - Invalid slots: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlots)

		default:
			h.logger.Error("PUT /slots - Failed to save slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /slots - Saved %d slots", len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
