package cancel_booking

import (
	"context"

	"github.com/ankudinovm/BDA-SlotService/internal/service/slots/models"
)

type SlotsService interface {
	CancelBooking(ctx context.Context, slotID string) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
