package sync_slots

import (
	"context"

	"github.com/ankudinovm/BDA-SlotService/internal/service/slots/models"
)

type SlotsService interface {
	SyncFromRemote(ctx context.Context) (*models.SyncResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
