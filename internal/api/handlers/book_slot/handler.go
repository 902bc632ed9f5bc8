package book_slot

import (
	"errors"
	"net/http"

	"github.com/ankudinovm/BDA-SlotService/internal/api/handlers"
	bookSlot "github.com/ankudinovm/BDA-SlotService/internal/usecase/book_slot"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidInput        = "некорректные данные бронирования"
	msgSlotNotFound        = "слот не найден"
	msgSlotNotAvailable    = "слот уже забронирован"
	msgCalendarUnavailable = "внешний календарь недоступен, попробуйте позже"
)

type Handler struct {
	useCase BookSlotUseCase
	logger  Logger
}

func NewHandler(useCase BookSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrInvalidInput):
			h.logger.Warn("POST /slots/book - Invalid input: slot_id=%s: %v", req.SlotID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookSlot.ErrSlotNotFound):
			h.logger.Warn("POST /slots/book - Slot not found: slot_id=%s", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, bookSlot.ErrSlotNotAvailable):
			h.logger.Warn("POST /slots/book - Slot not available: slot_id=%s", req.SlotID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, bookSlot.ErrCalendarUnavailable):
			// Отличаем "слот занят" от "календарь недоступен" - клиент решает,
			// повторять запрос или искать другой слот
			h.logger.Error("POST /slots/book - Calendar unavailable: slot_id=%s: %v", req.SlotID, err)
			handlers.RespondServiceUnavailable(w, msgCalendarUnavailable)

		default:
			h.logger.Error("POST /slots/book - Failed to book slot: slot_id=%s, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/book - Slot booked: slot_id=%s, booked_by=%s", result.SlotID, result.BookedBy)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
