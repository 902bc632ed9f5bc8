package book_slot

import (
	"context"
	"time"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
	"github.com/ankudinovm/BDA-SlotService/internal/integrations/calendarservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id string) (*domain.TimeSlot, error)
	Claim(ctx context.Context, id string) error
	Release(ctx context.Context, id string) error
	Upsert(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
}

// CalendarServiceClient интерфейс клиента внешнего календаря
type CalendarServiceClient interface {
	CreateEvent(ctx context.Context, req *calendarservice.CreateEventRequest) (*calendarservice.CreateEventResponse, error)
	UpdateEvent(ctx context.Context, eventID string, req *calendarservice.UpdateEventRequest) error
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
