package delete_event

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ankudinovm/BDA-SlotService/internal/api/handlers"
	"github.com/ankudinovm/BDA-SlotService/internal/service/slots"
)

const (
	msgInvalidEventID      = "некорректный идентификатор события"
	msgEventNotFound       = "событие не найдено"
	msgCalendarUnavailable = "внешний календарь недоступен, попробуйте позже"
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

// Handle DELETE /api/v1/events/{eventId}
// Удаляет только событие календаря; привязку в таблице слотов не очищает
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]
	if eventID == "" {
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	if err := h.service.DeleteEvent(r.Context(), eventID); err != nil {
		switch {
		case errors.Is(err, slots.ErrEventNotFound):
			h.logger.Warn("DELETE /events/{eventId} - Event not found: event_id=%s", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, slots.ErrCalendarUnavailable):
			h.logger.Error("DELETE /events/{eventId} - Calendar unavailable: event_id=%s: %v", eventID, err)
			handlers.RespondServiceUnavailable(w, msgCalendarUnavailable)

		default:
			h.logger.Error("DELETE /events/{eventId} - Failed to delete event: event_id=%s, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /events/{eventId} - Event deleted: event_id=%s", eventID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
