package generate_slots

import (
	"context"

	generateSlots "github.com/ankudinovm/BDA-SlotService/internal/usecase/generate_slots"
)

type GenerateSlotsUseCase interface {
	GenerateBulk(ctx context.Context, req *generateSlots.Request) (*generateSlots.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
