package save_slots

import (
	"context"

	"github.com/ankudinovm/BDA-SlotService/internal/service/slots/models"
)

type SlotsService interface {
	SaveSlots(ctx context.Context, req *models.SaveSlotsRequest) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
