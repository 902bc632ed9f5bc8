package ensure_capacity

import (
	"context"

	generateSlots "github.com/ankudinovm/BDA-SlotService/internal/usecase/generate_slots"
)

type EnsureCapacityUseCase interface {
	EnsureCapacity(ctx context.Context) (*generateSlots.CapacityResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
