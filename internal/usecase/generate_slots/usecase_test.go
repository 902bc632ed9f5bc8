package generate_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankudinovm/BDA-SlotService/internal/domain"
	slotRepo "github.com/ankudinovm/BDA-SlotService/internal/infra/storage/slot"
	"github.com/ankudinovm/BDA-SlotService/internal/integrations/calendarservice"
	"github.com/ankudinovm/BDA-SlotService/internal/service/slots/models"
	"github.com/ankudinovm/BDA-SlotService/pkg/ptr"
)

// Фиксированное "сейчас": понедельник 1 сентября 2025, следующая генерация с 8 сентября
var testNow = time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

// unlimitedLimiter безлимитный ограничитель для тестов
type unlimitedLimiter struct{}

func (l *unlimitedLimiter) Wait(ctx context.Context) error { return ctx.Err() }

// fakeSlotRepo репозиторий в памяти с ключом (дата, время)
type fakeSlotRepo struct {
	byKey map[string]*domain.TimeSlot

	linked      map[string]string // slot id -> event id
	afterCreate func(created int) // хук после каждой вставки
	creates     int
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{
		byKey:  make(map[string]*domain.TimeSlot),
		linked: make(map[string]string),
	}
}

func repoKey(date time.Time, timeOfDay string) string {
	return date.Format(domain.DateFormat) + " " + timeOfDay
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	key := repoKey(slot.Date, slot.TimeOfDay.String())
	if _, ok := r.byKey[key]; ok {
		return nil, slotRepo.ErrSlotAlreadyExists
	}
	r.byKey[key] = slot
	r.creates++
	if r.afterCreate != nil {
		r.afterCreate(r.creates)
	}
	return slot, nil
}

func (r *fakeSlotRepo) FindByDateAndTime(ctx context.Context, date time.Time, timeOfDay string) (*domain.TimeSlot, error) {
	if slot, ok := r.byKey[repoKey(date, timeOfDay)]; ok {
		return slot, nil
	}
	return nil, slotRepo.ErrSlotNotFound
}

func (r *fakeSlotRepo) SetRemoteEvent(ctx context.Context, id string, remoteEventID string) error {
	r.linked[id] = remoteEventID
	return nil
}

// fakeSlotsService отдаёт заранее заготовленные объединённые представления
type fakeSlotsService struct {
	responses []*models.SlotListResponse
	calls     int
}

func (s *fakeSlotsService) GetMergedSlots(ctx context.Context) (*models.SlotListResponse, error) {
	resp := s.responses[s.calls]
	if s.calls < len(s.responses)-1 {
		s.calls++
	}
	return resp, nil
}

// fakeCalendar создает события с последовательными идентификаторами
type fakeCalendar struct {
	createErr error
	created   []*calendarservice.CreateEventRequest
}

func (c *fakeCalendar) CreateEvent(ctx context.Context, req *calendarservice.CreateEventRequest) (*calendarservice.CreateEventResponse, error) {
	if c.createErr != nil {
		return nil, c.createErr
	}
	c.created = append(c.created, req)
	return &calendarservice.CreateEventResponse{EventID: "ev-" + req.Start.Format("2006-01-02-15:04")}, nil
}

func newTestUseCase(repo *fakeSlotRepo, svc SlotsService, cal *fakeCalendar) *UseCase {
	uc := NewUseCase(repo, svc, cal, &unlimitedLimiter{}, &nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func mergedResponse(slots ...models.SlotResponse) *models.SlotListResponse {
	return &models.SlotListResponse{Slots: slots}
}

func TestNextMonday(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			"from Monday jumps a full week",
			time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC),
			time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			"from Sunday is next day",
			time.Date(2025, 9, 7, 23, 0, 0, 0, time.UTC),
			time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			"from Wednesday",
			time.Date(2025, 9, 3, 12, 0, 0, 0, time.UTC),
			time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextMonday(tt.from))
		})
	}
}

func TestBuildCandidates_WeekdaysAndGridOnly(t *testing.T) {
	candidates := buildCandidates(testNow, 2)

	// 2 недели x 5 будних дней x 5 времён
	require.Len(t, candidates, 2*5*len(domain.AllowedTimesOfDay))

	for _, cand := range candidates {
		assert.True(t, domain.IsWeekday(cand.date), "candidate %s falls on a weekend", cand.key())
		assert.True(t, domain.IsAllowedTimeOfDay(cand.timeOfDay))
		assert.True(t, cand.date.After(testNow))
	}

	// Первый кандидат - следующий понедельник, самое раннее время сетки
	assert.Equal(t, "2025-09-08 10:00", candidates[0].key())
}

func TestGenerateBulk_EmptyStore(t *testing.T) {
	repo := newFakeSlotRepo()
	cal := &fakeCalendar{}
	uc := newTestUseCase(repo, &fakeSlotsService{responses: []*models.SlotListResponse{mergedResponse()}}, cal)

	result, err := uc.GenerateBulk(context.Background(), &Request{TargetCount: 5})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Created)
	assert.Equal(t, 5, result.RemoteEventsCreated)
	assert.Equal(t, 0, result.Errors)

	// Все 5 слотов - понедельник следующей недели, вся сетка времени
	assert.Len(t, repo.byKey, 5)
	for _, timeOfDay := range domain.AllowedTimesOfDay {
		slot, ok := repo.byKey["2025-09-08 "+timeOfDay.String()]
		require.True(t, ok, "missing slot at %s", timeOfDay)
		assert.True(t, slot.Available)
		assert.Equal(t, "Monday", slot.DayName)
		assert.NotEmpty(t, slot.ID)
	}

	// Каждый слот привязан к своему событию
	assert.Len(t, repo.linked, 5)
	assert.Len(t, cal.created, 5)
}

func TestGenerateBulk_SkipsExistingPairs(t *testing.T) {
	repo := newFakeSlotRepo()
	// Понедельник следующей недели уже полностью занят строками
	monday := time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC)
	for _, timeOfDay := range domain.AllowedTimesOfDay {
		repo.byKey[repoKey(monday, timeOfDay.String())] = &domain.TimeSlot{ID: "pre-" + timeOfDay.String()}
	}

	cal := &fakeCalendar{}
	uc := newTestUseCase(repo, &fakeSlotsService{responses: []*models.SlotListResponse{mergedResponse()}}, cal)

	result, err := uc.GenerateBulk(context.Background(), &Request{TargetCount: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Created)

	// Новые слоты начинаются со вторника
	for key := range repo.linked {
		slot := findByID(repo, key)
		require.NotNil(t, slot)
		assert.Equal(t, "2025-09-09", slot.Date.Format(domain.DateFormat))
	}
}

func findByID(repo *fakeSlotRepo, id string) *domain.TimeSlot {
	for _, slot := range repo.byKey {
		if slot.ID == id {
			return slot
		}
	}
	return nil
}

func TestGenerateBulk_CalendarFailure_SlotsStayUnlinked(t *testing.T) {
	repo := newFakeSlotRepo()
	cal := &fakeCalendar{createErr: errors.New("connection refused")}
	uc := newTestUseCase(repo, &fakeSlotsService{responses: []*models.SlotListResponse{mergedResponse()}}, cal)

	result, err := uc.GenerateBulk(context.Background(), &Request{TargetCount: 4})
	require.NoError(t, err)

	// Строки созданы, привязок нет - их восстановит синхронизация
	assert.Equal(t, 4, result.Created)
	assert.Equal(t, 0, result.RemoteEventsCreated)
	assert.Equal(t, 4, result.Errors)
	assert.Len(t, repo.byKey, 4)
	assert.Empty(t, repo.linked)
}

func TestGenerateBulk_ContextCancelled_PartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	repo := newFakeSlotRepo()
	repo.afterCreate = func(created int) {
		if created == 2 {
			cancel()
		}
	}

	uc := newTestUseCase(repo, &fakeSlotsService{responses: []*models.SlotListResponse{mergedResponse()}}, &fakeCalendar{})

	result, err := uc.GenerateBulk(ctx, &Request{TargetCount: 10})
	require.ErrorIs(t, err, ErrAborted)

	// Частичный результат сохраняется
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Created)
}

func TestGenerateBulk_RejectsNonPositiveTarget(t *testing.T) {
	uc := newTestUseCase(newFakeSlotRepo(), &fakeSlotsService{responses: []*models.SlotListResponse{mergedResponse()}}, &fakeCalendar{})

	_, err := uc.GenerateBulk(context.Background(), &Request{TargetCount: 0})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestEnsureCapacity_AboveFloor_NoGeneration(t *testing.T) {
	// CapacityFloor слотов без привязки за горизонтом - генерация не нужна
	slots := make([]models.SlotResponse, 0, domain.CapacityFloor)
	for i := 0; i < domain.CapacityFloor; i++ {
		slots = append(slots, models.SlotResponse{
			ID:        "slot",
			Date:      testNow.AddDate(0, 0, domain.CapacityLeadDays+1+i/5).Format(domain.DateFormat),
			Available: true,
		})
	}

	repo := newFakeSlotRepo()
	uc := newTestUseCase(repo, &fakeSlotsService{responses: []*models.SlotListResponse{mergedResponse(slots...)}}, &fakeCalendar{})

	result, err := uc.EnsureCapacity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.CapacityFloor, result.Unlinked)
	assert.False(t, result.Triggered)
	assert.Nil(t, result.Generation)
	assert.Empty(t, repo.byKey)
}

func TestEnsureCapacity_LinkedAndNearSlotsDoNotCount(t *testing.T) {
	farDate := testNow.AddDate(0, 0, domain.CapacityLeadDays+7).Format(domain.DateFormat)
	nearDate := testNow.AddDate(0, 0, 2).Format(domain.DateFormat)

	merged := mergedResponse(
		// Привязанный слот не считается
		models.SlotResponse{ID: "linked", Date: farDate, RemoteEventID: ptr.Ptr("ev-1")},
		// Слот ближе горизонта не считается
		models.SlotResponse{ID: "near", Date: nearDate},
		// Единственный учитываемый
		models.SlotResponse{ID: "counted", Date: farDate},
	)

	repo := newFakeSlotRepo()
	uc := newTestUseCase(repo, &fakeSlotsService{responses: []*models.SlotListResponse{merged}}, &fakeCalendar{})

	result, err := uc.EnsureCapacity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Unlinked)
	assert.True(t, result.Triggered)
	require.NotNil(t, result.Generation)
	assert.Equal(t, domain.CapacityFloor-1, result.Generation.Created)
}

func TestEnsureCapacity_SecondRunSeesReplenishedStock(t *testing.T) {
	// Первый запуск: учитываемых слотов нет, генерируется полный порог.
	// Второй запуск видит представление с пополненным запасом без привязок
	// за горизонтом и порога уже не пробивает
	replenished := make([]models.SlotResponse, 0, domain.CapacityFloor)
	for i := 0; i < domain.CapacityFloor; i++ {
		date := testNow.AddDate(0, 0, domain.CapacityLeadDays+7+i/5)
		replenished = append(replenished, models.SlotResponse{
			ID:   "generated",
			Date: date.Format(domain.DateFormat),
		})
	}

	svc := &fakeSlotsService{responses: []*models.SlotListResponse{
		mergedResponse(),
		mergedResponse(replenished...),
	}}
	repo := newFakeSlotRepo()
	cal := &fakeCalendar{createErr: errors.New("connection refused")}
	uc := newTestUseCase(repo, svc, cal)

	first, err := uc.EnsureCapacity(context.Background())
	require.NoError(t, err)
	assert.True(t, first.Triggered)
	assert.Equal(t, domain.CapacityFloor, first.Generation.Created)

	second, err := uc.EnsureCapacity(context.Background())
	require.NoError(t, err)
	assert.False(t, second.Triggered)
	assert.Equal(t, domain.CapacityFloor, second.Unlinked)
	// Повторная генерация не запускалась
	assert.Equal(t, domain.CapacityFloor, repo.creates)
}
