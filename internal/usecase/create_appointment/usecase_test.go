package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
	businessRepo "github.com/bookraft/appointment-service/internal/infra/storage/business"
	"github.com/bookraft/appointment-service/pkg/types"
)

// Фейки зависимостей

type fakeApptRepo struct {
	existing []*domain.Appointment
	created  *domain.Appointment
	markedID uuid.UUID
}

func (f *fakeApptRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	stored := *appt
	stored.CreatedAt = time.Now()
	f.created = &stored
	return &stored, nil
}

func (f *fakeApptRepo) GetByBusinessWithFilter(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	return f.existing, nil
}

func (f *fakeApptRepo) MarkConfirmationSent(_ context.Context, id uuid.UUID) error {
	f.markedID = id
	return nil
}

type fakeBusinessRepo struct {
	business *domain.Business
	err      error
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, _ int64) (*domain.Business, error) {
	return f.business, f.err
}

type fakeScheduleRepo struct {
	day *domain.DayHours
	err error
}

func (f *fakeScheduleRepo) GetDayHours(_ context.Context, _ int64, _ int) (*domain.DayHours, error) {
	return f.day, f.err
}

type fakeServiceRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return f.service, f.err
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return f.users[id], nil
}

// passthroughTxManager выполняет функцию без реальной транзакции
type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMailPublisher struct {
	messages []mailqueue.MailMessage
}

func (f *fakeMailPublisher) Publish(_ context.Context, msg mailqueue.MailMessage) error {
	f.messages = append(f.messages, msg)
	return nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Вспомогательные билдеры

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

var (
	testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC) // понедельник
	testNow  = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc        *UseCase
	apptRepo  *fakeApptRepo
	publisher *fakeMailPublisher
}

func newFixture(t *testing.T, existing []*domain.Appointment) *fixture {
	t.Helper()

	apptRepo := &fakeApptRepo{existing: existing}
	publisher := &fakeMailPublisher{}

	day := &domain.DayHours{
		Weekday: 0,
		Periods: []domain.TimePeriod{{
			StartTime: ts(t, "09:00"),
			EndTime:   ts(t, "18:00"),
		}},
	}

	uc := NewUseCase(
		apptRepo,
		&fakeBusinessRepo{business: &domain.Business{ID: 1, OwnerID: 2, Name: "Салон", IsActive: true}},
		&fakeScheduleRepo{day: day},
		&fakeServiceRepo{service: &domain.Service{
			ID: 10, BusinessID: 1, Name: "Стрижка", DurationMinutes: 30, Price: 1500, IsActive: true,
		}},
		&fakeUserRepo{users: map[int64]*domain.User{
			5: {ID: 5, Email: "client@example.com", FirstName: "Иван", LastName: "Петров"},
			2: {ID: 2, Email: "owner@example.com", FirstName: "Анна", LastName: "Смирнова"},
		}},
		passthroughTxManager{},
		publisher,
		nopLogger{},
	)
	uc.timeProvider = &fixedTime{now: testNow}

	return &fixture{uc: uc, apptRepo: apptRepo, publisher: publisher}
}

func baseRequest() *Request {
	return &Request{
		ClientID:   5,
		BusinessID: 1,
		ServiceID:  10,
		Date:       testDate,
		StartTime:  "10:00",
	}
}

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "10:30", resp.EndTime.String())
	assert.NotEqual(t, uuid.Nil, resp.ID)

	require.NotNil(t, f.apptRepo.created)
	assert.Equal(t, resp.ID, f.apptRepo.created.ID)
}

func TestExecute_QueuesConfirmationMails(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	require.Len(t, f.publisher.messages, 2)
	assert.Equal(t, mailqueue.TypeAppointmentConfirmationClient, f.publisher.messages[0].Type)
	assert.Equal(t, "client@example.com", f.publisher.messages[0].To)
	assert.Equal(t, mailqueue.TypeAppointmentNotificationOwner, f.publisher.messages[1].Type)
	assert.Equal(t, "owner@example.com", f.publisher.messages[1].To)
	assert.Equal(t, resp.ID, f.apptRepo.markedID)
}

func TestExecute_RejectsTakenSlot(t *testing.T) {
	existing := []*domain.Appointment{{
		StartTime: ts(t, "10:00"),
		EndTime:   ts(t, "10:30"),
		Status:    domain.StatusConfirmed,
	}}
	f := newFixture(t, existing)

	_, err := f.uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, f.apptRepo.created)
	assert.Empty(t, f.publisher.messages)
}

func TestExecute_RejectsPartialOverlap(t *testing.T) {
	existing := []*domain.Appointment{{
		StartTime: ts(t, "10:15"),
		EndTime:   ts(t, "10:45"),
		Status:    domain.StatusPending,
	}}
	f := newFixture(t, existing)

	_, err := f.uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_AllowsBoundaryTouch(t *testing.T) {
	existing := []*domain.Appointment{{
		StartTime: ts(t, "10:30"),
		EndTime:   ts(t, "11:00"),
		Status:    domain.StatusConfirmed,
	}}
	f := newFixture(t, existing)

	_, err := f.uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
}

func TestExecute_RejectsPastDate(t *testing.T) {
	f := newFixture(t, nil)
	f.uc.timeProvider = &fixedTime{now: time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_RejectsClosedDay(t *testing.T) {
	f := newFixture(t, nil)
	f.uc.scheduleRepo = &fakeScheduleRepo{day: &domain.DayHours{Weekday: 0, IsClosed: true}}

	_, err := f.uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_RejectsMissingSchedule(t *testing.T) {
	f := newFixture(t, nil)
	f.uc.scheduleRepo = &fakeScheduleRepo{err: businessRepo.ErrDayHoursNotFound}

	_, err := f.uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_RejectsSlotOutsidePeriods(t *testing.T) {
	f := newFixture(t, nil)

	req := baseRequest()
	req.StartTime = "18:00"

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_RejectsMisalignedStart(t *testing.T) {
	f := newFixture(t, nil)

	req := baseRequest()
	req.StartTime = "10:10"

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_RejectsSameDaySlotTooSoon(t *testing.T) {
	f := newFixture(t, nil)
	// Запрос на сегодня: сейчас 09:45, слот 10:00 начинается раньше чем через 30 минут
	f.uc.timeProvider = &fixedTime{now: time.Date(2026, 3, 16, 9, 45, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrTooSoon)
}

func TestExecute_AllowsSameDaySlotAfterBuffer(t *testing.T) {
	f := newFixture(t, nil)
	f.uc.timeProvider = &fixedTime{now: time.Date(2026, 3, 16, 9, 15, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
}

func TestExecute_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero client", func(r *Request) { r.ClientID = 0 }},
		{"zero business", func(r *Request) { r.BusinessID = 0 }},
		{"zero service", func(r *Request) { r.ServiceID = 0 }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"empty time", func(r *Request) { r.StartTime = "" }},
		{"bad time format", func(r *Request) { r.StartTime = "25:99" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_RejectsInactiveService(t *testing.T) {
	f := newFixture(t, nil)
	f.uc.serviceRepo = &fakeServiceRepo{service: &domain.Service{
		ID: 10, BusinessID: 1, DurationMinutes: 30, IsActive: false,
	}}

	_, err := f.uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_RejectsServiceFromAnotherBusiness(t *testing.T) {
	f := newFixture(t, nil)
	f.uc.serviceRepo = &fakeServiceRepo{service: &domain.Service{
		ID: 10, BusinessID: 99, DurationMinutes: 30, IsActive: true,
	}}

	_, err := f.uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_IgnoresCancelledAppointments(t *testing.T) {
	existing := []*domain.Appointment{{
		StartTime: ts(t, "10:00"),
		EndTime:   ts(t, "10:30"),
		Status:    domain.StatusCancelled,
	}}
	f := newFixture(t, existing)

	_, err := f.uc.Execute(context.Background(), baseRequest())

	// Репозиторий уже фильтрует по блокирующим статусам, но и при попадании
	// отменённой записи в выборку пересечение должно проверяться по факту
	require.NoError(t, err)
}
