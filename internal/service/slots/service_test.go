package slots

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
	"github.com/ankudinovm/BDA-SlotService/pkg/types"
)

// Фиксированное "сейчас" для тестов: понедельник 09:00 UTC
var testNow = time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

// fakeSlotRepo репозиторий в памяти с записью вызовов мутаций
type fakeSlotRepo struct {
	slots   []*domain.TimeSlot
	listErr error

	markedBooked map[string]string // slot id -> event id
	bookedNames  map[string]*string
	cleared      []string
	upserted     []*domain.TimeSlot
	deleteAllRet int64
}

func newFakeSlotRepo(slots ...*domain.TimeSlot) *fakeSlotRepo {
	return &fakeSlotRepo{
		slots:        slots,
		markedBooked: make(map[string]string),
		bookedNames:  make(map[string]*string),
	}
}

func (r *fakeSlotRepo) List(ctx context.Context) ([]*domain.TimeSlot, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.slots, nil
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id string) (*domain.TimeSlot, error) {
	for _, s := range r.slots {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, slotRepo.ErrSlotNotFound
}

func (r *fakeSlotRepo) Upsert(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	r.upserted = append(r.upserted, slot)
	return slot, nil
}

func (r *fakeSlotRepo) MarkBooked(ctx context.Context, id string, bookedBy *string, remoteEventID string) error {
	r.markedBooked[id] = remoteEventID
	r.bookedNames[id] = bookedBy
	return nil
}

func (r *fakeSlotRepo) ClearBooking(ctx context.Context, id string) error {
	for _, s := range r.slots {
		if s.ID == id {
			r.cleared = append(r.cleared, id)
			return nil
		}
	}
	return slotRepo.ErrSlotNotFound
}

func (r *fakeSlotRepo) DeleteAll(ctx context.Context) (int64, error) {
	return r.deleteAllRet, nil
}

// fakeCalendar клиент календаря с фиксированным списком событий
type fakeCalendar struct {
	events    []calendarservice.Event
	listErr   error
	deleteErr error
	deleted   []string
}

func (c *fakeCalendar) ListEvents(ctx context.Context, start, end time.Time) ([]calendarservice.Event, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.events, nil
}

func (c *fakeCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, eventID)
	return nil
}

func newTestService(repo *fakeSlotRepo, cal *fakeCalendar) *Service {
	svc := NewService(repo, cal, &nopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: testNow}
	return svc
}

func testSlot(id, date, timeOfDay string, available bool) *domain.TimeSlot {
	d, _ := time.Parse(domain.DateFormat, date)
	return &domain.TimeSlot{
		ID:        id,
		Date:      d,
		DayName:   domain.DayNameForDate(d),
		TimeOfDay: types.TimeString(timeOfDay),
		Available: available,
	}
}

func testEvent(id, date, startTime string, durationMin int, attendees ...calendarservice.Attendee) calendarservice.Event {
	start, _ := time.Parse("2006-01-02 15:04", date+" "+startTime)
	return calendarservice.Event{
		ID:        id,
		Title:     "Бронирование",
		Start:     start,
		End:       start.Add(time.Duration(durationMin) * time.Minute),
		Attendees: attendees,
	}
}

func TestGetMergedSlots_EventIDPreferredOverStored(t *testing.T) {
	// У слота устаревшая привязка, в календаре пересекающееся событие с другим ID
	slot := testSlot("slot-1", "2025-09-01", "10:00", false)
	slot.RemoteEventID = ptr.Ptr("stale-event")

	repo := newFakeSlotRepo(slot)
	cal := &fakeCalendar{events: []calendarservice.Event{
		testEvent("fresh-event", "2025-09-01", "10:00", 60),
	}}

	resp, err := newTestService(repo, cal).GetMergedSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)

	require.NotNil(t, resp.Slots[0].RemoteEventID)
	assert.Equal(t, "fresh-event", *resp.Slots[0].RemoteEventID)
	// Доступность всегда из хранилища
	assert.False(t, resp.Slots[0].Available)
}

func TestGetMergedSlots_BoundaryEventDoesNotOverlap(t *testing.T) {
	// Событие, граничащее с окном слота, пересечением не считается
	slot := testSlot("slot-1", "2025-09-01", "10:00", true)

	repo := newFakeSlotRepo(slot)
	cal := &fakeCalendar{events: []calendarservice.Event{
		testEvent("ev-before", "2025-09-01", "09:00", 60),
		testEvent("ev-after", "2025-09-01", "11:00", 60),
	}}

	resp, err := newTestService(repo, cal).GetMergedSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Nil(t, resp.Slots[0].RemoteEventID)
}

func TestGetMergedSlots_CalendarDown_ReturnsStoreData(t *testing.T) {
	slot := testSlot("slot-1", "2025-09-01", "10:00", true)
	slot.RemoteEventID = ptr.Ptr("ev-1")

	repo := newFakeSlotRepo(slot)
	cal := &fakeCalendar{listErr: calendarservice.ErrServiceUnavailable}

	resp, err := newTestService(repo, cal).GetMergedSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)

	// Данные хранилища возвращаются как есть, включая сохранённую привязку
	assert.Equal(t, "slot-1", resp.Slots[0].ID)
	require.NotNil(t, resp.Slots[0].RemoteEventID)
	assert.Equal(t, "ev-1", *resp.Slots[0].RemoteEventID)
}

func TestSyncFromRemote_NoEvents_AllSlotsCleared(t *testing.T) {
	// Календарь пуст - все слоты принудительно освобождаются
	booked := testSlot("slot-1", "2025-09-01", "10:00", false)
	booked.BookedBy = ptr.Ptr("Jana")
	free := testSlot("slot-2", "2025-09-02", "11:00", true)

	repo := newFakeSlotRepo(booked, free)
	cal := &fakeCalendar{}

	result, err := newTestService(repo, cal).SyncFromRemote(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 0, result.MarkedBooked)
	assert.Equal(t, 2, result.MarkedAvailable)
	assert.False(t, result.Skipped)
	assert.ElementsMatch(t, []string{"slot-1", "slot-2"}, repo.cleared)
}

func TestSyncFromRemote_EventMarksSlotBooked(t *testing.T) {
	slot := testSlot("slot-1", "2025-09-01", "10:00", true)

	repo := newFakeSlotRepo(slot)
	cal := &fakeCalendar{events: []calendarservice.Event{
		testEvent("ev-1", "2025-09-01", "10:00", 60,
			calendarservice.Attendee{Name: "Jana", Email: "jana@x.sk"}),
	}}

	result, err := newTestService(repo, cal).SyncFromRemote(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.MarkedBooked)
	assert.Equal(t, 0, result.MarkedAvailable)
	assert.Equal(t, "ev-1", repo.markedBooked["slot-1"])
	require.NotNil(t, repo.bookedNames["slot-1"])
	assert.Equal(t, "Jana", *repo.bookedNames["slot-1"])
}

func TestSyncFromRemote_AttendeeWithoutName_UsesEmail(t *testing.T) {
	slot := testSlot("slot-1", "2025-09-01", "10:00", true)

	repo := newFakeSlotRepo(slot)
	cal := &fakeCalendar{events: []calendarservice.Event{
		testEvent("ev-1", "2025-09-01", "10:00", 60,
			calendarservice.Attendee{Email: "jana@x.sk"}),
	}}

	_, err := newTestService(repo, cal).SyncFromRemote(context.Background())
	require.NoError(t, err)

	require.NotNil(t, repo.bookedNames["slot-1"])
	assert.Equal(t, "jana@x.sk", *repo.bookedNames["slot-1"])
}

func TestSyncFromRemote_Idempotent(t *testing.T) {
	slot := testSlot("slot-1", "2025-09-01", "10:00", true)
	cal := &fakeCalendar{events: []calendarservice.Event{
		testEvent("ev-1", "2025-09-01", "10:00", 60,
			calendarservice.Attendee{Name: "Jana", Email: "jana@x.sk"}),
	}}

	repo := newFakeSlotRepo(slot)
	svc := newTestService(repo, cal)

	first, err := svc.SyncFromRemote(context.Background())
	require.NoError(t, err)
	second, err := svc.SyncFromRemote(context.Background())
	require.NoError(t, err)

	// Повторный запуск с тем же состоянием даёт тот же результат
	assert.Equal(t, first, second)
}

func TestSyncFromRemote_SlotBeyondEventWindowUntouched(t *testing.T) {
	// События запрашиваются только на окно слияния вперёд; бронь на слоте
	// за его пределами не должна сбрасываться из-за непрошенного события
	farBooked := testSlot("slot-far", testNow.AddDate(0, 0, 60).Format(domain.DateFormat), "10:00", false)
	farBooked.BookedBy = ptr.Ptr("Jana")
	farBooked.RemoteEventID = ptr.Ptr("ev-far")

	pastBooked := testSlot("slot-past", testNow.AddDate(0, 0, -7).Format(domain.DateFormat), "10:00", false)

	nearFree := testSlot("slot-near", "2025-09-02", "11:00", false)

	repo := newFakeSlotRepo(farBooked, pastBooked, nearFree)
	cal := &fakeCalendar{}

	result, err := newTestService(repo, cal).SyncFromRemote(context.Background())
	require.NoError(t, err)

	// Проверен и освобождён только слот внутри окна
	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 1, result.MarkedAvailable)
	assert.Equal(t, []string{"slot-near"}, repo.cleared)
	assert.Empty(t, repo.markedBooked)
}

func TestSyncFromRemote_CalendarDown_SkipsWithoutMutation(t *testing.T) {
	booked := testSlot("slot-1", "2025-09-01", "10:00", false)

	repo := newFakeSlotRepo(booked)
	cal := &fakeCalendar{listErr: calendarservice.ErrServiceUnavailable}

	result, err := newTestService(repo, cal).SyncFromRemote(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Equal(t, 0, result.Checked)
	assert.Empty(t, repo.cleared)
	assert.Empty(t, repo.markedBooked)
}

func TestSaveSlots_MintsIDForNewSlots(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo, &fakeCalendar{})

	resp, err := svc.SaveSlots(context.Background(), &models.SaveSlotsRequest{
		Slots: []models.SlotInput{
			{Date: "2025-09-01", TimeOfDay: "10:00", Available: true},
			{ID: "existing-id", Date: "2025-09-01", TimeOfDay: "11:00", Available: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)

	assert.NotEmpty(t, resp.Slots[0].ID)
	assert.Equal(t, "existing-id", resp.Slots[1].ID)
	assert.Equal(t, "Monday", resp.Slots[0].DayName)
}

func TestSaveSlots_RejectsTimeOutsideGrid(t *testing.T) {
	svc := newTestService(newFakeSlotRepo(), &fakeCalendar{})

	_, err := svc.SaveSlots(context.Background(), &models.SaveSlotsRequest{
		Slots: []models.SlotInput{{Date: "2025-09-01", TimeOfDay: "12:00", Available: true}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaveSlots_RejectsMalformedDate(t *testing.T) {
	svc := newTestService(newFakeSlotRepo(), &fakeCalendar{})

	_, err := svc.SaveSlots(context.Background(), &models.SaveSlotsRequest{
		Slots: []models.SlotInput{{Date: "01.09.2025", TimeOfDay: "10:00", Available: true}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancelBooking_MakesSlotAvailable(t *testing.T) {
	slot := testSlot("slot-1", "2025-09-01", "10:00", false)
	slot.BookedBy = ptr.Ptr("Jana")
	slot.BookedAt = ptr.Ptr(testNow)
	slot.RemoteEventID = ptr.Ptr("ev-1")

	repo := newFakeSlotRepo(slot)
	cal := &fakeCalendar{}

	resp, err := newTestService(repo, cal).CancelBooking(context.Background(), "slot-1")
	require.NoError(t, err)

	assert.True(t, resp.Available)
	assert.Nil(t, resp.BookedBy)
	assert.Nil(t, resp.BookedAt)
	assert.Nil(t, resp.RemoteEventID)
	assert.Equal(t, []string{"slot-1"}, repo.cleared)

	// Событие календаря намеренно не удаляется
	assert.Empty(t, cal.deleted)
}

func TestCancelBooking_SlotNotBooked(t *testing.T) {
	repo := newFakeSlotRepo(testSlot("slot-1", "2025-09-01", "10:00", true))

	_, err := newTestService(repo, &fakeCalendar{}).CancelBooking(context.Background(), "slot-1")
	require.ErrorIs(t, err, ErrSlotNotBooked)
	assert.Empty(t, repo.cleared)
}

func TestCancelBooking_SlotNotFound(t *testing.T) {
	svc := newTestService(newFakeSlotRepo(), &fakeCalendar{})

	_, err := svc.CancelBooking(context.Background(), "missing")
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestClearAllSlots(t *testing.T) {
	repo := newFakeSlotRepo()
	repo.deleteAllRet = 7

	result, err := newTestService(repo, &fakeCalendar{}).ClearAllSlots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Deleted)
}

func TestDeleteEvent(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(newFakeSlotRepo(), cal)

	require.NoError(t, svc.DeleteEvent(context.Background(), "ev-1"))
	assert.Equal(t, []string{"ev-1"}, cal.deleted)
}

func TestDeleteEvent_NotFound(t *testing.T) {
	cal := &fakeCalendar{deleteErr: calendarservice.ErrEventNotFound}
	svc := newTestService(newFakeSlotRepo(), cal)

	err := svc.DeleteEvent(context.Background(), "missing")
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteEvent_CalendarDown(t *testing.T) {
	cal := &fakeCalendar{deleteErr: errors.New("connection refused")}
	svc := newTestService(newFakeSlotRepo(), cal)

	err := svc.DeleteEvent(context.Background(), "ev-1")
	require.ErrorIs(t, err, ErrCalendarUnavailable)
}
