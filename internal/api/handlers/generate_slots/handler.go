package generate_slots

import (
	"errors"
	"net/http"

	"github.com/ankudinovm/BDA-SlotService/internal/api/handlers"
	generateSlots "github.com/ankudinovm/BDA-SlotService/internal/usecase/generate_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCount       = "количество слотов должно быть положительным"
	msgGenerationAborted  = "генерация прервана, создана только часть слотов"
)

// GenerateSlotsRequest HTTP request model
type GenerateSlotsRequest struct {
	Count int `json:"count"`
}

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.GenerateBulk(r.Context(), &generateSlots.Request{TargetCount: req.Count})
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /slots/generate - Invalid count=%d", req.Count)
			handlers.RespondBadRequest(w, msgInvalidCount)

		case errors.Is(err, generateSlots.ErrAborted):
			// Контекст отменён - частичный результат уже сохранён в хранилище
			h.logger.Warn("POST /slots/generate - Aborted: %v", err)
			handlers.RespondServiceUnavailable(w, msgGenerationAborted)

		default:
			h.logger.Error("POST /slots/generate - Generation failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/generate - Generated: created=%d, events=%d, errors=%d",
		result.Created, result.RemoteEventsCreated, result.Errors)
	handlers.RespondJSON(w, http.StatusOK, result)
}
