package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookraft/appointment-service/internal/domain"
	businessRepo "github.com/bookraft/appointment-service/internal/infra/storage/business"
	serviceRepo "github.com/bookraft/appointment-service/internal/infra/storage/service"
	"github.com/bookraft/appointment-service/pkg/ptr"
	"github.com/bookraft/appointment-service/pkg/types"
)

// Фейки зависимостей

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

type fakeApptRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeApptRepo) GetBlockingByBusinessAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return f.appointments, f.err
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

func period(t *testing.T, start, end string, label *string) domain.TimePeriod {
	t.Helper()
	return domain.TimePeriod{
		StartTime: ts(t, start),
		EndTime:   ts(t, end),
		Label:     label,
	}
}

func blocking(t *testing.T, start, end string) *domain.Appointment {
	t.Helper()
	return &domain.Appointment{
		StartTime: ts(t, start),
		EndTime:   ts(t, end),
		Status:    domain.StatusConfirmed,
	}
}

func newUseCase(day *domain.DayHours, dayErr error, durationMinutes int, appointments []*domain.Appointment, now time.Time) *UseCase {
	uc := NewUseCase(
		&fakeBusinessRepo{business: &domain.Business{ID: 1, IsActive: true}},
		&fakeScheduleRepo{day: day, err: dayErr},
		&fakeServiceRepo{service: &domain.Service{
			ID:              10,
			BusinessID:      1,
			Name:            "Стрижка",
			DurationMinutes: durationMinutes,
			IsActive:        true,
		}},
		&fakeApptRepo{appointments: appointments},
		nopLogger{},
	)
	uc.timeProvider = &fixedTime{now: now}
	return uc
}

func slotStarts(slots []Slot) []string {
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime.String())
	}
	return starts
}

// Дата запроса - всегда будущий понедельник относительно now в тестах
var (
	testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC) // понедельник
	testNow  = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

func baseRequest() *Request {
	return &Request{BusinessID: 1, ServiceID: 10, Date: testDate}
}

func TestExecute_ClosedDayReturnsNoSlots(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, IsClosed: true, Periods: []domain.TimePeriod{
		period(t, "09:00", "18:00", nil),
	}}
	uc := newUseCase(day, nil, 30, nil, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_MissingDayConfigReturnsNoSlots(t *testing.T) {
	uc := newUseCase(nil, businessRepo.ErrDayHoursNotFound, 30, nil, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DayWithoutPeriodsReturnsNoSlots(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, IsClosed: false}
	uc := newUseCase(day, nil, 30, nil, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_SkipsSlotsOverlappingAppointment(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "12:00", nil),
	}}
	appts := []*domain.Appointment{blocking(t, "10:00", "10:30")}
	uc := newUseCase(day, nil, 30, appts, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	// 09:45, 10:00 и 10:15 пересекаются с бронированием 10:00-10:30,
	// 11:45 не помещается до конца интервала
	assert.Equal(t, []string{
		"09:00", "09:15", "09:30",
		"10:30", "10:45", "11:00", "11:15", "11:30",
	}, slotStarts(resp.Slots))
}

func TestExecute_BoundaryTouchIsNotOverlap(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "10:30", nil),
	}}
	// Бронирование 09:30-10:00: слоты 09:00-09:30 и 10:00-10:30 граничат с ним
	appts := []*domain.Appointment{blocking(t, "09:30", "10:00")}
	uc := newUseCase(day, nil, 30, appts, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, slotStarts(resp.Slots))
}

func TestExecute_TwoPeriodsWithHourService(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "12:00", ptr.Ptr("Утро")),
		period(t, "14:00", "17:00", nil),
	}}
	uc := newUseCase(day, nil, 60, nil, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	require.Len(t, resp.Slots, 18)

	// Первый интервал: 09:00 .. 11:00 с шагом 15 минут
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "10:00", resp.Slots[0].EndTime.String())
	assert.Equal(t, "Утро", resp.Slots[0].PeriodLabel)
	assert.Equal(t, "11:00", resp.Slots[8].StartTime.String())

	// Второй интервал: 14:00 .. 16:00, имя по умолчанию
	assert.Equal(t, "14:00", resp.Slots[9].StartTime.String())
	assert.Equal(t, "Period 2", resp.Slots[9].PeriodLabel)
	assert.Equal(t, "16:00", resp.Slots[17].StartTime.String())
}

func TestExecute_SameDayBufferFiltersSlots(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "12:00", nil),
	}}
	// Запрос на сегодня, сейчас 10:00 - доступны только слоты строго позже 10:30
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	uc := newUseCase(day, nil, 30, nil, now)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Equal(t, []string{"10:45", "11:00", "11:15", "11:30"}, slotStarts(resp.Slots))
}

func TestExecute_NoBufferForFutureDate(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "10:30", nil),
	}}
	// Завтра буфер не применяется, даже если сейчас поздний вечер
	now := time.Date(2026, 3, 15, 23, 50, 0, 0, time.UTC)
	uc := newUseCase(day, nil, 30, nil, now)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:15", "09:30", "09:45", "10:00"}, slotStarts(resp.Slots))
}

func TestExecute_SameDayBufferPastMidnight(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "23:59", nil),
	}}
	// now+30 минут выходит за полночь - сегодня слотов не осталось
	now := time.Date(2026, 3, 16, 23, 45, 0, 0, time.UTC)
	uc := newUseCase(day, nil, 30, nil, now)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_OverlappingPeriodsAreNotDeduplicated(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "10:00", ptr.Ptr("A")),
		period(t, "09:00", "10:00", ptr.Ptr("B")),
	}}
	uc := newUseCase(day, nil, 30, nil, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	// Каждый интервал обрабатывается независимо: одинаковые слоты из разных
	// интервалов присутствуют оба раза
	assert.Equal(t, []string{"09:00", "09:15", "09:30", "09:00", "09:15", "09:30"}, slotStarts(resp.Slots))
	assert.Equal(t, "A", resp.Slots[0].PeriodLabel)
	assert.Equal(t, "B", resp.Slots[3].PeriodLabel)
}

func TestExecute_ServiceLongerThanPeriod(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "09:45", nil),
	}}
	uc := newUseCase(day, nil, 60, nil, testNow)

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PastDateReturnsNoSlots(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "12:00", nil),
	}}
	uc := newUseCase(day, nil, 30, nil, time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Idempotent(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "12:00", nil),
	}}
	appts := []*domain.Appointment{blocking(t, "10:00", "10:30")}
	uc := newUseCase(day, nil, 30, appts, testNow)

	first, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newUseCase(nil, businessRepo.ErrDayHoursNotFound, 30, nil, testNow)

	tests := []struct {
		name string
		req  *Request
	}{
		{"zero business", &Request{BusinessID: 0, ServiceID: 10, Date: testDate}},
		{"zero service", &Request{BusinessID: 1, ServiceID: 0, Date: testDate}},
		{"zero date", &Request{BusinessID: 1, ServiceID: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_BusinessNotFound(t *testing.T) {
	uc := newUseCase(nil, nil, 30, nil, testNow)
	uc.businessRepo = &fakeBusinessRepo{err: businessRepo.ErrBusinessNotFound}

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newUseCase(nil, nil, 30, nil, testNow)
	uc.serviceRepo = &fakeServiceRepo{err: serviceRepo.ErrServiceNotFound}

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceFromAnotherBusiness(t *testing.T) {
	uc := newUseCase(nil, nil, 30, nil, testNow)
	uc.serviceRepo = &fakeServiceRepo{service: &domain.Service{
		ID: 10, BusinessID: 99, DurationMinutes: 30, IsActive: true,
	}}

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveService(t *testing.T) {
	uc := newUseCase(nil, nil, 30, nil, testNow)
	uc.serviceRepo = &fakeServiceRepo{service: &domain.Service{
		ID: 10, BusinessID: 1, DurationMinutes: 30, IsActive: false,
	}}

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestGenerateDaySlots_IgnoresNonBlockingAppointments(t *testing.T) {
	day := &domain.DayHours{Weekday: 0, Periods: []domain.TimePeriod{
		period(t, "09:00", "10:00", nil),
	}}
	cancelled := &domain.Appointment{
		StartTime: ts(t, "09:00"),
		EndTime:   ts(t, "10:00"),
		Status:    domain.StatusCancelled,
	}

	slots, err := generateDaySlots(day, 30, []*domain.Appointment{cancelled}, testDate, testNow)

	require.NoError(t, err)
	assert.Equal(t, 3, len(slots))
}
