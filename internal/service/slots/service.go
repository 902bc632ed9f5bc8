package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
	slotRepo "github.com/ankudinovm/BDA-SlotService/internal/infra/storage/slot"
	"github.com/ankudinovm/BDA-SlotService/internal/integrations/calendarservice"
	"github.com/ankudinovm/BDA-SlotService/internal/service/slots/models"
)

// Service сервис для работы со слотами и их синхронизацией с внешним календарём
//
// Правило авторитетности источников:
//   - GetMergedSlots: хранилище главнее - доступность берётся из таблицы слотов,
//     календарь используется только для восстановления привязки к событиям
//   - SyncFromRemote: календарь главнее - состояние таблицы принудительно
//     подгоняется под список событий (периодическая коррекция дрейфа)
type Service struct {
	slotRepo       SlotRepository
	calendarClient CalendarServiceClient
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	calendarClient CalendarServiceClient,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:       slotRepo,
		calendarClient: calendarClient,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// GetMergedSlots возвращает объединённое представление всех слотов
// Для каждого слота ищется пересекающееся событие календаря; найденное событие
// обновляет привязку remoteEventId в ответе (самовосстановление устаревших ссылок)
// Доступность всегда берётся из хранилища
//
// При недоступности календаря возвращаются данные хранилища без обогащения -
// доступность в них валидна, теряется только обновление привязок
func (s *Service) GetMergedSlots(ctx context.Context) (*models.SlotListResponse, error) {
	storedSlots, err := s.slotRepo.List(ctx)
	if err != nil {
		s.logger.Error("GetMergedSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetMergedSlots - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	events, err := s.calendarClient.ListEvents(ctx, now, now.AddDate(0, 0, domain.MergeWindowDays))
	if err != nil {
		s.logger.Warn("GetMergedSlots: calendar unavailable, returning store data as-is: %v", err)
		return models.FromDomainSlotList(storedSlots), nil
	}

	for _, slot := range storedSlots {
		start, err := slot.StartAt()
		if err != nil {
			s.logger.Warn("GetMergedSlots: skipping slot id=%s with invalid time window: %v", slot.ID, err)
			continue
		}

		if event := overlappingEvent(start, start.Add(domain.SlotDurationMinutes*time.Minute), events); event != nil {
			// Событие найдено - его идентификатор надёжнее сохранённого
			slot.RemoteEventID = &event.ID
		}
	}

	s.logger.Info("GetMergedSlots: merged %d slots with %d calendar events", len(storedSlots), len(events))
	return models.FromDomainSlotList(storedSlots), nil
}

// SyncFromRemote принудительно синхронизирует таблицу слотов с календарём
// Слот с пересекающимся событием помечается занятым (имя берётся из участников
// события), слот без события - свободным с очисткой данных бронирования
//
// Коррекция ограничена окном запроса событий: слот за его пределами не
// трогается, ведь его событие в выборку не попадало и отсутствие события
// ничего не говорит о состоянии брони
//
// При недоступности календаря операция не выполняется (no-op): запускать
// коррекцию по неполным данным опаснее, чем пропустить цикл
func (s *Service) SyncFromRemote(ctx context.Context) (*models.SyncResult, error) {
	storedSlots, err := s.slotRepo.List(ctx)
	if err != nil {
		s.logger.Error("SyncFromRemote: repository error: %v", err)
		return nil, fmt.Errorf("%w: SyncFromRemote - repository error: %v", ErrInternal, err)
	}

	windowStart := s.timeProvider.Now()
	windowEnd := windowStart.AddDate(0, 0, domain.MergeWindowDays)
	events, err := s.calendarClient.ListEvents(ctx, windowStart, windowEnd)
	if err != nil {
		s.logger.Warn("SyncFromRemote: calendar unavailable, skipping sync: %v", err)
		return &models.SyncResult{Skipped: true}, nil
	}

	result := &models.SyncResult{}

	for _, slot := range storedSlots {
		start, err := slot.StartAt()
		if err != nil {
			s.logger.Warn("SyncFromRemote: skipping slot id=%s with invalid time window: %v", slot.ID, err)
			continue
		}
		end := start.Add(domain.SlotDurationMinutes * time.Minute)

		if start.Before(windowStart) || end.After(windowEnd) {
			continue
		}

		event := overlappingEvent(start, end, events)
		result.Checked++

		if event != nil {
			bookedBy := attendeeDisplayName(event)
			if err := s.slotRepo.MarkBooked(ctx, slot.ID, bookedBy, event.ID); err != nil {
				s.logger.Error("SyncFromRemote: failed to mark slot id=%s booked: %v", slot.ID, err)
				return nil, fmt.Errorf("%w: SyncFromRemote - mark booked: %v", ErrInternal, err)
			}
			result.MarkedBooked++
			continue
		}

		if err := s.slotRepo.ClearBooking(ctx, slot.ID); err != nil {
			s.logger.Error("SyncFromRemote: failed to clear slot id=%s: %v", slot.ID, err)
			return nil, fmt.Errorf("%w: SyncFromRemote - clear booking: %v", ErrInternal, err)
		}
		result.MarkedAvailable++
	}

	s.logger.Info("SyncFromRemote: checked=%d, booked=%d, available=%d",
		result.Checked, result.MarkedBooked, result.MarkedAvailable)
	return result, nil
}

// SaveSlots массово сохраняет слоты (upsert по паре дата+время)
// Слотам без идентификатора выдается новый
func (s *Service) SaveSlots(ctx context.Context, req *models.SaveSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("SaveSlots: saving %d slots", len(req.Slots))

	saved := make([]*domain.TimeSlot, 0, len(req.Slots))

	for i := range req.Slots {
		input := &req.Slots[i]

		slot, err := input.ToDomainSlot()
		if err != nil {
			s.logger.Warn("SaveSlots: invalid slot input date=%s time=%s: %v", input.Date, input.TimeOfDay, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if !domain.IsAllowedTimeOfDay(slot.TimeOfDay) {
			s.logger.Warn("SaveSlots: time %s is not in the allowed grid", slot.TimeOfDay)
			return nil, fmt.Errorf("%w: time %s is not allowed", ErrInvalidInput, slot.TimeOfDay)
		}

		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}

		upserted, err := s.slotRepo.Upsert(ctx, slot)
		if err != nil {
			s.logger.Error("SaveSlots: failed to upsert slot date=%s time=%s: %v", input.Date, input.TimeOfDay, err)
			return nil, fmt.Errorf("%w: SaveSlots - upsert: %v", ErrInternal, err)
		}

		saved = append(saved, upserted)
	}

	s.logger.Info("SaveSlots: successfully saved %d slots", len(saved))
	return models.FromDomainSlotList(saved), nil
}

// CancelBooking снимает бронирование со слота
// Слот снова становится доступным, данные бронирования и привязка к событию
// очищаются. Событие внешнего календаря намеренно не удаляется - оно остаётся
// как история; периодическая SyncFromRemote при необходимости пересоберёт состояние
func (s *Service) CancelBooking(ctx context.Context, slotID string) (*models.SlotResponse, error) {
	s.logger.Info("CancelBooking: cancelling booking for slot id=%s", slotID)

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("CancelBooking: slot id=%s not found", slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("CancelBooking: repository error for slot id=%s: %v", slotID, err)
		return nil, fmt.Errorf("%w: CancelBooking - repository error: %v", ErrInternal, err)
	}

	if slot.Available {
		s.logger.Warn("CancelBooking: slot id=%s is not booked", slotID)
		return nil, ErrSlotNotBooked
	}

	if err := s.slotRepo.ClearBooking(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("CancelBooking: failed to clear booking for slot id=%s: %v", slotID, err)
		return nil, fmt.Errorf("%w: CancelBooking - clear booking: %v", ErrInternal, err)
	}

	slot.Available = true
	slot.BookedBy = nil
	slot.BookedAt = nil
	slot.RemoteEventID = nil

	s.logger.Info("CancelBooking: successfully cancelled booking for slot id=%s", slotID)
	return models.FromDomainSlot(slot), nil
}

// ClearAllSlots удаляет все слоты из хранилища
// События внешнего календаря не каскадируются - их удаляют отдельно через DeleteEvent
func (s *Service) ClearAllSlots(ctx context.Context) (*models.ClearResult, error) {
	deleted, err := s.slotRepo.DeleteAll(ctx)
	if err != nil {
		s.logger.Error("ClearAllSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: ClearAllSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ClearAllSlots: deleted %d slots", deleted)
	return &models.ClearResult{Deleted: deleted}, nil
}

// DeleteEvent удаляет событие внешнего календаря
// Привязку в таблице слотов не трогает - это отдельный административный шаг
func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	s.logger.Info("DeleteEvent: deleting calendar event id=%s", eventID)

	if err := s.calendarClient.DeleteEvent(ctx, eventID); err != nil {
		if errors.Is(err, calendarservice.ErrEventNotFound) {
			s.logger.Warn("DeleteEvent: event id=%s not found", eventID)
			return ErrEventNotFound
		}
		s.logger.Error("DeleteEvent: calendar error for event id=%s: %v", eventID, err)
		return fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}

	s.logger.Info("DeleteEvent: successfully deleted event id=%s", eventID)
	return nil
}

// Вспомогательные методы

// overlappingEvent ищет событие календаря, пересекающееся с окном [start, end)
func overlappingEvent(start, end time.Time, events []calendarservice.Event) *calendarservice.Event {
	for i := range events {
		if events[i].Overlaps(start, end) {
			return &events[i]
		}
	}

	return nil
}

// attendeeDisplayName извлекает отображаемое имя бронирующего из события
// Берётся первый участник: имя, при его отсутствии email
func attendeeDisplayName(event *calendarservice.Event) *string {
	if len(event.Attendees) == 0 {
		return nil
	}

	attendee := event.Attendees[0]
	if attendee.Name != "" {
		return &attendee.Name
	}
	if attendee.Email != "" {
		return &attendee.Email
	}

	return nil
}
