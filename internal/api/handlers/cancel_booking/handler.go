package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ankudinovm/BDA-SlotService/internal/api/handlers"
	"github.com/ankudinovm/BDA-SlotService/internal/service/slots"
)

const (
	msgInvalidSlotID = "некорректный идентификатор слота"
	msgSlotNotFound  = "слот не найден"
	msgSlotNotBooked = "слот не забронирован"
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

// Handle POST /api/v1/slots/{slotId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID := mux.Vars(r)["slotId"]
	if slotID == "" {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.service.CancelBooking(r.Context(), slotID)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("POST /slots/{slotId}/cancel - Slot not found: slot_id=%s", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slots.ErrSlotNotBooked):
			h.logger.Warn("POST /slots/{slotId}/cancel - Slot not booked: slot_id=%s", slotID)
			handlers.RespondBadRequest(w, msgSlotNotBooked)

		default:
			h.logger.Error("POST /slots/{slotId}/cancel - Failed to cancel: slot_id=%s, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/{slotId}/cancel - Booking cancelled: slot_id=%s", slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
