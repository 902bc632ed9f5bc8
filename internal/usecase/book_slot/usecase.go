package book_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
	slotRepo "github.com/ankudinovm/BDA-SlotService/internal/infra/storage/slot"
	"github.com/ankudinovm/BDA-SlotService/internal/integrations/calendarservice"
	"github.com/ankudinovm/BDA-SlotService/pkg/ptr"
)

// UseCase use case бронирования слота
type UseCase struct {
	slotRepo       SlotRepository
	calendarClient CalendarServiceClient
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	calendarClient CalendarServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:       slotRepo,
		calendarClient: calendarClient,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет бронирование слота
//
// Гонка двух одновременных бронирований закрывается условным захватом:
// слот помечается занятым одним UPDATE с условием available=true, и только
// победитель продолжает работу с календарём. При ошибке календаря захват
// снимается - частичных бронирований не остаётся
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: slot=%s, name=%s, email=%s", req.SlotID, req.Name, req.Email)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем слот
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("BookSlot: slot id=%s not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("BookSlot: repository error for slot id=%s: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	// 3. Проверяем доступность до каких-либо мутаций
	if slot.IsBooked() {
		uc.logger.Warn("BookSlot: slot id=%s is already booked", req.SlotID)
		return nil, ErrSlotNotAvailable
	}

	// 4. Захватываем слот условным обновлением
	if err := uc.slotRepo.Claim(ctx, req.SlotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotAvailable) {
			// Конкурирующее бронирование успело раньше
			uc.logger.Warn("BookSlot: slot id=%s was claimed concurrently", req.SlotID)
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("BookSlot: failed to claim slot id=%s: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to claim slot: %v", ErrInternal, err)
	}

	// 5. Отражаем бронирование во внешнем календаре
	remoteEventID, meetingLink, err := uc.reflectInCalendar(ctx, slot, req)
	if err != nil {
		// Календарь недоступен - бронирование не состоялось, снимаем захват
		uc.releaseClaim(ctx, req.SlotID)
		uc.logger.Error("BookSlot: calendar error for slot id=%s: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}

	// 6. Сохраняем данные бронирования
	now := uc.timeProvider.Now()
	slot.Available = false
	slot.BookedBy = ptr.Ptr(req.Name)
	slot.BookedAt = &now
	slot.RemoteEventID = &remoteEventID

	booked, err := uc.slotRepo.Upsert(ctx, slot)
	if err != nil {
		// Захват уже состоялся и событие в календаре есть - слот занят,
		// но метаданные не записались; дрейф исправит периодическая синхронизация
		uc.logger.Error("BookSlot: failed to persist booking for slot id=%s: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to persist booking: %v", ErrInternal, err)
	}

	uc.logger.Info("BookSlot: slot id=%s booked by %s, event id=%s", booked.ID, req.Name, remoteEventID)
	return fromDomainSlot(booked, meetingLink), nil
}

// reflectInCalendar обновляет существующее событие слота или создает новое
// Возвращает идентификатор события и ссылку на встречу (если календарь её выдал)
func (uc *UseCase) reflectInCalendar(ctx context.Context, slot *domain.TimeSlot, req *Request) (string, *string, error) {
	title := fmt.Sprintf("Бронирование: %s", req.Name)
	description := fmt.Sprintf("Слот %s %s забронирован через BDA-SlotService.\nКонтакт: %s <%s>",
		slot.Date.Format(domain.DateFormat), slot.TimeOfDay, req.Name, req.Email)
	attendees := []calendarservice.Attendee{{Name: req.Name, Email: req.Email}}

	// Путь переиспользования: у слота уже есть событие - обновляем его
	if slot.HasRemoteEvent() {
		err := uc.calendarClient.UpdateEvent(ctx, *slot.RemoteEventID, &calendarservice.UpdateEventRequest{
			Title:       &title,
			Description: &description,
			Attendees:   attendees,
		})
		if err != nil {
			return "", nil, err
		}
		return *slot.RemoteEventID, nil, nil
	}

	// События ещё нет - создаем новое
	start, err := slot.StartAt()
	if err != nil {
		return "", nil, err
	}

	created, err := uc.calendarClient.CreateEvent(ctx, &calendarservice.CreateEventRequest{
		Title:       title,
		Description: description,
		Start:       start,
		End:         start.Add(domain.SlotDurationMinutes * time.Minute),
		Attendees:   attendees,
	})
	if err != nil {
		return "", nil, err
	}

	return created.EventID, created.MeetingLink, nil
}

// releaseClaim возвращает слот в доступное состояние после неудачного бронирования
func (uc *UseCase) releaseClaim(ctx context.Context, slotID string) {
	if err := uc.slotRepo.Release(ctx, slotID); err != nil {
		// Слот останется помеченным занятым без метаданных;
		// периодическая синхронизация вернёт его в строй
		uc.logger.Error("BookSlot: failed to release claim on slot id=%s: %v", slotID, err)
	}
}
