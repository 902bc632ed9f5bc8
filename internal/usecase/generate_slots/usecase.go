package generate_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
	slotRepo "github.com/ankudinovm/BDA-SlotService/internal/infra/storage/slot"
	"github.com/ankudinovm/BDA-SlotService/internal/integrations/calendarservice"
)

// UseCase use case поддержания горизонта доступных слотов
type UseCase struct {
	slotRepo       SlotRepository
	slotsService   SlotsService
	calendarClient CalendarServiceClient
	limiter        Limiter
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	slotsService SlotsService,
	calendarClient CalendarServiceClient,
	limiter Limiter,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:       slotRepo,
		slotsService:   slotsService,
		calendarClient: calendarClient,
		limiter:        limiter,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// EnsureCapacity проверяет запас слотов и при необходимости запускает генерацию
//
// Считаются слоты объединённого представления без привязки к событию календаря
// с датой минимум через CapacityLeadDays дней. Если их меньше CapacityFloor,
// генерируется недостающее количество. Это эвристика запаса, а не строгая
// гарантия планирования
func (uc *UseCase) EnsureCapacity(ctx context.Context) (*CapacityResult, error) {
	merged, err := uc.slotsService.GetMergedSlots(ctx)
	if err != nil {
		uc.logger.Error("EnsureCapacity: failed to get merged slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get merged slots: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	horizon := now.AddDate(0, 0, domain.CapacityLeadDays)

	unlinked := 0
	for _, slot := range merged.Slots {
		if slot.RemoteEventID != nil && *slot.RemoteEventID != "" {
			continue
		}

		date, err := time.Parse(domain.DateFormat, slot.Date)
		if err != nil {
			uc.logger.Warn("EnsureCapacity: skipping slot id=%s with invalid date %q", slot.ID, slot.Date)
			continue
		}

		if !date.Before(horizon) {
			unlinked++
		}
	}

	if unlinked >= domain.CapacityFloor {
		uc.logger.Info("EnsureCapacity: %d unlinked future slots, floor=%d, nothing to do",
			unlinked, domain.CapacityFloor)
		return &CapacityResult{Unlinked: unlinked}, nil
	}

	uc.logger.Info("EnsureCapacity: %d unlinked future slots below floor=%d, generating %d",
		unlinked, domain.CapacityFloor, domain.CapacityFloor-unlinked)

	generation, err := uc.GenerateBulk(ctx, &Request{TargetCount: domain.CapacityFloor - unlinked})
	if err != nil {
		return nil, err
	}

	return &CapacityResult{
		Unlinked:   unlinked,
		Triggered:  true,
		Generation: generation,
	}, nil
}

// GenerateBulk создает targetCount новых слотов начиная со следующего понедельника
//
// Для каждого кандидата: пропуск при существующей строке на эту пару (дата, время),
// иначе строка в хранилище, затем событие в календаре. Ошибка создания события
// не прерывает цикл - слот остаётся без привязки, её восстановит синхронизация.
// Между обращениями к календарю выдерживается ограничение частоты независимо
// от исхода запроса
func (uc *UseCase) GenerateBulk(ctx context.Context, req *Request) (*Result, error) {
	if req.TargetCount <= 0 {
		return nil, fmt.Errorf("%w: targetCount must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()
	uc.logger.Info("GenerateBulk: generating %d slots starting from %s",
		req.TargetCount, nextMonday(now).Format(domain.DateFormat))

	result := &Result{}
	seen := make(map[string]struct{})

	for _, cand := range buildCandidates(now, domain.MaxGenerationWeeks) {
		if result.Created >= req.TargetCount {
			break
		}

		if err := ctx.Err(); err != nil {
			uc.logger.Warn("GenerateBulk: aborted after %d slots: %v", result.Created, err)
			return result, fmt.Errorf("%w: %v", ErrAborted, err)
		}

		if _, ok := seen[cand.key()]; ok {
			continue
		}
		seen[cand.key()] = struct{}{}

		created, err := uc.createSlot(ctx, cand)
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return result, err
			}
			uc.logger.Error("GenerateBulk: failed to create slot %s: %v", cand.key(), err)
			return result, err
		}
		if created == nil {
			// Слот на эту пару уже существует
			continue
		}

		result.Created++

		eventID, err := uc.createRemoteEvent(ctx, created)
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return result, err
			}
			// Событие не создалось - слот остаётся без привязки, идём дальше
			uc.logger.Warn("GenerateBulk: calendar event failed for slot %s: %v", cand.key(), err)
			result.Errors++
			continue
		}

		if err := uc.slotRepo.SetRemoteEvent(ctx, created.ID, eventID); err != nil {
			uc.logger.Error("GenerateBulk: failed to link slot id=%s to event id=%s: %v",
				created.ID, eventID, err)
			result.Errors++
			continue
		}

		result.RemoteEventsCreated++
	}

	uc.logger.Info("GenerateBulk: created=%d, remoteEventsCreated=%d, errors=%d",
		result.Created, result.RemoteEventsCreated, result.Errors)
	return result, nil
}

// createSlot создает строку слота для кандидата
// Возвращает (nil, nil), если слот на эту пару (дата, время) уже существует
func (uc *UseCase) createSlot(ctx context.Context, cand candidate) (*domain.TimeSlot, error) {
	// Проверка существующей строки до вставки
	_, err := uc.slotRepo.FindByDateAndTime(ctx, cand.date, cand.timeOfDay.String())
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, slotRepo.ErrSlotNotFound) {
		return nil, fmt.Errorf("%w: lookup failed: %v", ErrInternal, err)
	}

	slot := &domain.TimeSlot{
		ID:        uuid.NewString(),
		Date:      cand.date,
		DayName:   domain.DayNameForDate(cand.date),
		TimeOfDay: cand.timeOfDay,
		Available: true,
	}

	created, err := uc.slotRepo.Create(ctx, slot)
	if err != nil {
		// Конкурирующая генерация успела вставить ту же пару - просто пропускаем
		if errors.Is(err, slotRepo.ErrSlotAlreadyExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: insert failed: %v", ErrInternal, err)
	}

	return created, nil
}

// createRemoteEvent создает событие календаря для нового слота
// Перед обращением выдерживается ограничение частоты
func (uc *UseCase) createRemoteEvent(ctx context.Context, slot *domain.TimeSlot) (string, error) {
	if err := uc.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAborted, err)
	}

	start, err := slot.StartAt()
	if err != nil {
		return "", err
	}

	created, err := uc.calendarClient.CreateEvent(ctx, &calendarservice.CreateEventRequest{
		Title: "Свободный слот для записи",
		Description: fmt.Sprintf("Слот %s %s открыт для бронирования.",
			slot.Date.Format(domain.DateFormat), slot.TimeOfDay),
		Start: start,
		End:   start.Add(domain.SlotDurationMinutes * time.Minute),
	})
	if err != nil {
		return "", err
	}

	return created.EventID, nil
}
