package businesses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookraft/appointment-service/internal/domain"
	businessRepo "github.com/bookraft/appointment-service/internal/infra/storage/business"
	serviceRepo "github.com/bookraft/appointment-service/internal/infra/storage/service"
	"github.com/bookraft/appointment-service/internal/service/businesses/models"
	"github.com/bookraft/appointment-service/pkg/ptr"
)

// Фейки зависимостей

type fakeBusinessRepo struct {
	businesses map[int64]*domain.Business
	nextID     int64
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{businesses: map[int64]*domain.Business{}, nextID: 1}
}

func (r *fakeBusinessRepo) Create(_ context.Context, business *domain.Business) (*domain.Business, error) {
	created := *business
	created.ID = r.nextID
	r.nextID++
	r.businesses[created.ID] = &created
	return &created, nil
}

func (r *fakeBusinessRepo) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	business, ok := r.businesses[id]
	if !ok {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return business, nil
}

func (r *fakeBusinessRepo) ListActive(_ context.Context) ([]*domain.Business, error) {
	var result []*domain.Business
	for _, b := range r.businesses {
		if b.IsActive {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBusinessRepo) Update(_ context.Context, business *domain.Business) error {
	if _, ok := r.businesses[business.ID]; !ok {
		return businessRepo.ErrBusinessNotFound
	}
	r.businesses[business.ID] = business
	return nil
}

type fakeHoursRepo struct {
	weeks map[int64][]*domain.DayHours
}

func newFakeHoursRepo() *fakeHoursRepo {
	return &fakeHoursRepo{weeks: map[int64][]*domain.DayHours{}}
}

func (r *fakeHoursRepo) GetWeek(_ context.Context, businessID int64) ([]*domain.DayHours, error) {
	return r.weeks[businessID], nil
}

func (r *fakeHoursRepo) ReplaceWeek(_ context.Context, businessID int64, days []*domain.DayHours) error {
	r.weeks[businessID] = days
	return nil
}

type fakeServiceRepo struct {
	services map[int64]*domain.Service
	nextID   int64
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: map[int64]*domain.Service{}, nextID: 1}
}

func (r *fakeServiceRepo) Create(_ context.Context, service *domain.Service) (*domain.Service, error) {
	created := *service
	created.ID = r.nextID
	r.nextID++
	r.services[created.ID] = &created
	return &created, nil
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	service, ok := r.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return service, nil
}

func (r *fakeServiceRepo) ListByBusiness(_ context.Context, businessID int64, onlyActive bool) ([]*domain.Service, error) {
	var result []*domain.Service
	for _, s := range r.services {
		if s.BusinessID != businessID {
			continue
		}
		if onlyActive && !s.IsActive {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (r *fakeServiceRepo) Update(_ context.Context, service *domain.Service) error {
	if _, ok := r.services[service.ID]; !ok {
		return serviceRepo.ErrServiceNotFound
	}
	r.services[service.ID] = service
	return nil
}

func (r *fakeServiceRepo) Deactivate(_ context.Context, id int64) error {
	service, ok := r.services[id]
	if !ok {
		return serviceRepo.ErrServiceNotFound
	}
	service.IsActive = false
	return nil
}

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

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	service      *Service
	businessRepo *fakeBusinessRepo
	hoursRepo    *fakeHoursRepo
	serviceRepo  *fakeServiceRepo
}

func newFixture() *fixture {
	businesses := newFakeBusinessRepo()
	hours := newFakeHoursRepo()
	services := newFakeServiceRepo()
	svc := NewService(businesses, hours, services, passthroughTxManager{}, nopLogger{})
	return &fixture{service: svc, businessRepo: businesses, hoursRepo: hours, serviceRepo: services}
}

func (f *fixture) addBusiness(ownerID int64) *domain.Business {
	business, _ := f.businessRepo.Create(context.Background(), &domain.Business{
		OwnerID:  ownerID,
		Name:     "Барбершоп",
		IsActive: true,
	})
	return business
}

// Тесты

func TestCreate_RequiresBusinessRole(t *testing.T) {
	f := newFixture()

	req := &models.CreateBusinessRequest{OwnerID: 1, Name: "Барбершоп"}

	_, err := f.service.Create(context.Background(), req, domain.RoleClient)
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.service.Create(context.Background(), req, domain.RoleBusiness)
	require.NoError(t, err)
	assert.Equal(t, "Барбершоп", resp.Name)
	assert.True(t, resp.IsActive)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	f := newFixture()
	business := f.addBusiness(1)

	req := &models.UpdateBusinessRequest{Name: ptr.Ptr("Новое имя")}

	_, err := f.service.Update(context.Background(), business.ID, 2, domain.RoleBusiness, req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.service.Update(context.Background(), business.ID, 1, domain.RoleBusiness, req)
	require.NoError(t, err)
	assert.Equal(t, "Новое имя", resp.Name)

	// Администратор может менять чужой бизнес
	resp, err = f.service.Update(context.Background(), business.ID, 99, domain.RoleAdmin,
		&models.UpdateBusinessRequest{Name: ptr.Ptr("Админское имя")})
	require.NoError(t, err)
	assert.Equal(t, "Админское имя", resp.Name)
}

func TestUpdateWeekSchedule_ReplacesWeek(t *testing.T) {
	f := newFixture()
	business := f.addBusiness(1)

	req := &models.UpdateHoursRequest{
		Days: []models.DayHoursInput{
			{
				Weekday: 0,
				Periods: []models.PeriodInput{
					{StartTime: "09:00", EndTime: "13:00", Label: ptr.Ptr("Утро")},
					{StartTime: "14:00", EndTime: "18:00"},
				},
			},
			{Weekday: 6, IsClosed: true},
		},
	}

	resp, err := f.service.UpdateWeekSchedule(context.Background(), business.ID, 1, domain.RoleBusiness, req)
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, 0, resp.Days[0].Weekday)
	require.Len(t, resp.Days[0].Periods, 2)
	assert.Equal(t, "09:00", resp.Days[0].Periods[0].StartTime)
	assert.True(t, resp.Days[1].IsClosed)
}

func TestUpdateWeekSchedule_RejectsInvalidInput(t *testing.T) {
	f := newFixture()
	business := f.addBusiness(1)

	tests := []struct {
		name string
		req  *models.UpdateHoursRequest
	}{
		{
			name: "weekday out of range",
			req: &models.UpdateHoursRequest{
				Days: []models.DayHoursInput{{Weekday: 7}},
			},
		},
		{
			name: "duplicate weekday",
			req: &models.UpdateHoursRequest{
				Days: []models.DayHoursInput{{Weekday: 1}, {Weekday: 1}},
			},
		},
		{
			name: "period end before start",
			req: &models.UpdateHoursRequest{
				Days: []models.DayHoursInput{{
					Weekday: 0,
					Periods: []models.PeriodInput{{StartTime: "14:00", EndTime: "12:00"}},
				}},
			},
		},
		{
			name: "unparseable time",
			req: &models.UpdateHoursRequest{
				Days: []models.DayHoursInput{{
					Weekday: 0,
					Periods: []models.PeriodInput{{StartTime: "morning", EndTime: "12:00"}},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.UpdateWeekSchedule(context.Background(), business.ID, 1, domain.RoleBusiness, tt.req)
			assert.ErrorIs(t, err, ErrInvalidHours)
		})
	}
}

func TestCreateService_ValidatesInput(t *testing.T) {
	f := newFixture()
	business := f.addBusiness(1)

	tests := []struct {
		name string
		req  *models.CreateServiceRequest
	}{
		{name: "empty name", req: &models.CreateServiceRequest{Name: "", DurationMinutes: 30}},
		{name: "duration too short", req: &models.CreateServiceRequest{Name: "Стрижка", DurationMinutes: 3}},
		{name: "duration too long", req: &models.CreateServiceRequest{Name: "Стрижка", DurationMinutes: 500}},
		{name: "negative price", req: &models.CreateServiceRequest{Name: "Стрижка", DurationMinutes: 30, Price: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateService(context.Background(), business.ID, 1, domain.RoleBusiness, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	resp, err := f.service.CreateService(context.Background(), business.ID, 1, domain.RoleBusiness,
		&models.CreateServiceRequest{Name: "Стрижка", DurationMinutes: 30, Price: 1500})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
}

func TestDeleteService_DeactivatesInsteadOfDeleting(t *testing.T) {
	f := newFixture()
	business := f.addBusiness(1)

	created, err := f.service.CreateService(context.Background(), business.ID, 1, domain.RoleBusiness,
		&models.CreateServiceRequest{Name: "Стрижка", DurationMinutes: 30, Price: 1500})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteService(context.Background(), created.ID, 1, domain.RoleBusiness))

	// Услуга осталась в хранилище, но неактивна
	stored, err := f.serviceRepo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	// И не видна в публичном списке
	list, err := f.service.ListServices(context.Background(), business.ID, true)
	require.NoError(t, err)
	assert.Empty(t, list.Services)
}

func TestListServices_FiltersInactive(t *testing.T) {
	f := newFixture()
	business := f.addBusiness(1)

	_, err := f.service.CreateService(context.Background(), business.ID, 1, domain.RoleBusiness,
		&models.CreateServiceRequest{Name: "Стрижка", DurationMinutes: 30, Price: 1500})
	require.NoError(t, err)
	inactive, err := f.service.CreateService(context.Background(), business.ID, 1, domain.RoleBusiness,
		&models.CreateServiceRequest{Name: "Бритьё", DurationMinutes: 20, Price: 800})
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteService(context.Background(), inactive.ID, 1, domain.RoleBusiness))

	public, err := f.service.ListServices(context.Background(), business.ID, true)
	require.NoError(t, err)
	assert.Len(t, public.Services, 1)

	all, err := f.service.ListServices(context.Background(), business.ID, false)
	require.NoError(t, err)
	assert.Len(t, all.Services, 2)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetByID(context.Background(), 404)

	assert.ErrorIs(t, err, ErrBusinessNotFound)
}
