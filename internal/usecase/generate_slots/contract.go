package generate_slots

import (
	"context"
	"time"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
	"github.com/ankudinovm/BDA-SlotService/internal/integrations/calendarservice"
	"github.com/ankudinovm/BDA-SlotService/internal/service/slots/models"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	FindByDateAndTime(ctx context.Context, date time.Time, timeOfDay string) (*domain.TimeSlot, error)
	SetRemoteEvent(ctx context.Context, id string, remoteEventID string) error
}

// SlotsService интерфейс сервиса слотов (для подсчёта ёмкости по объединённому представлению)
type SlotsService interface {
	GetMergedSlots(ctx context.Context) (*models.SlotListResponse, error)
}

// CalendarServiceClient интерфейс клиента внешнего календаря
type CalendarServiceClient interface {
	CreateEvent(ctx context.Context, req *calendarservice.CreateEventRequest) (*calendarservice.CreateEventResponse, error)
}

// Limiter ограничитель частоты обращений к внешнему календарю
// Реализуется *rate.Limiter; в тестах подставляется безлимитный
type Limiter interface {
	Wait(ctx context.Context) error
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
