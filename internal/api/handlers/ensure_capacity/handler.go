package ensure_capacity

import (
	"net/http"

	"github.com/ankudinovm/BDA-SlotService/internal/api/handlers"
)

type Handler struct {
	useCase EnsureCapacityUseCase
	logger  Logger
}

func NewHandler(useCase EnsureCapacityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/ensure-capacity
// Вызывается внешним планировщиком для поддержания запаса слотов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.EnsureCapacity(r.Context())
	if err != nil {
		h.logger.Error("POST /slots/ensure-capacity - Capacity check failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if result.Triggered {
		h.logger.Info("POST /slots/ensure-capacity - Generation triggered: unlinked=%d, created=%d",
			result.Unlinked, result.Generation.Created)
	} else {
		h.logger.Info("POST /slots/ensure-capacity - Capacity sufficient: unlinked=%d", result.Unlinked)
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
