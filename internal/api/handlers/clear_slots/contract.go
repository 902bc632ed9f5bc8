package clear_slots

import (
	"context"

	"github.com/ankudinovm/BDA-SlotService/internal/service/slots/models"
)

type SlotsService interface {
	ClearAllSlots(ctx context.Context) (*models.ClearResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
