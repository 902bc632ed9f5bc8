package slots

import (
	"context"
	"time"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
	"github.com/ankudinovm/BDA-SlotService/internal/integrations/calendarservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	List(ctx context.Context) ([]*domain.TimeSlot, error)
	GetByID(ctx context.Context, id string) (*domain.TimeSlot, error)
	Upsert(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	MarkBooked(ctx context.Context, id string, bookedBy *string, remoteEventID string) error
	ClearBooking(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// CalendarServiceClient интерфейс клиента внешнего календаря
type CalendarServiceClient interface {
	ListEvents(ctx context.Context, start, end time.Time) ([]calendarservice.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
