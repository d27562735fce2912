package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
	apptRepo "github.com/bookraft/appointment-service/internal/infra/storage/appointment"
	businessRepo "github.com/bookraft/appointment-service/internal/infra/storage/business"
	serviceRepo "github.com/bookraft/appointment-service/internal/infra/storage/service"
	userRepo "github.com/bookraft/appointment-service/internal/infra/storage/user"
	"github.com/bookraft/appointment-service/internal/service/appointments/models"
	"github.com/bookraft/appointment-service/pkg/ptr"
	"github.com/bookraft/appointment-service/pkg/types"
)

// Фейки зависимостей

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*domain.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{}}
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (r *fakeAppointmentRepo) GetByClientID(_ context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range r.appointments {
		if a.ClientID != clientID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeAppointmentRepo) GetByBusinessWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range r.appointments {
		if a.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Date != nil && !a.Date.Equal(*filter.Date) {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, s := range filter.Statuses {
				if a.Status == s {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	appt, ok := r.appointments[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	appt.Status = status
	return nil
}

type fakeBusinessRepo struct {
	businesses map[int64]*domain.Business
}

func (r *fakeBusinessRepo) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	business, ok := r.businesses[id]
	if !ok {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return business, nil
}

type fakeServiceRepo struct {
	services map[int64]*domain.Service
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	service, ok := r.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return service, nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return user, nil
}

type fakeMailPublisher struct {
	messages []mailqueue.MailMessage
}

func (p *fakeMailPublisher) Publish(_ context.Context, msg mailqueue.MailMessage) error {
	p.messages = append(p.messages, msg)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// Тестовые данные

const (
	clientID   = int64(1)
	ownerID    = int64(2)
	strangerID = int64(3)
	adminID    = int64(99)
	businessID = int64(10)
	serviceID  = int64(20)
)

type fixture struct {
	service   *Service
	apptRepo  *fakeAppointmentRepo
	publisher *fakeMailPublisher
}

func newFixture() *fixture {
	businesses := &fakeBusinessRepo{businesses: map[int64]*domain.Business{
		businessID: {
			ID:      businessID,
			OwnerID: ownerID,
			Name:    "Барбершоп",
			Address: ptr.Ptr("ул. Ленина, 1"),
		},
	}}
	services := &fakeServiceRepo{services: map[int64]*domain.Service{
		serviceID: {
			ID:              serviceID,
			BusinessID:      businessID,
			Name:            "Стрижка",
			DurationMinutes: 30,
			Price:           1500,
			IsActive:        true,
		},
	}}
	users := &fakeUserRepo{users: map[int64]*domain.User{
		clientID: {
			ID:        clientID,
			Email:     "client@example.com",
			FirstName: "Иван",
			LastName:  "Петров",
		},
	}}
	appts := newFakeAppointmentRepo()
	publisher := &fakeMailPublisher{}

	svc := NewService(appts, businesses, services, users, publisher, nopLogger{})
	return &fixture{service: svc, apptRepo: appts, publisher: publisher}
}

func (f *fixture) addAppointment(status domain.AppointmentStatus) *domain.Appointment {
	appt := &domain.Appointment{
		ID:         uuid.New(),
		ClientID:   clientID,
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:  types.TimeString("10:00"),
		EndTime:    types.TimeString("10:30"),
		Status:     status,
		CreatedAt:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.apptRepo.appointments[appt.ID] = appt
	return appt
}

// GetByID

func TestGetByID_ClientSeesOwnAppointment(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusPending)

	resp, err := f.service.GetByID(context.Background(), appt.ID, clientID, domain.RoleClient)

	require.NoError(t, err)
	assert.Equal(t, appt.ID, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "2026-03-16", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)
}

func TestGetByID_OwnerSeesBusinessAppointment(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusConfirmed)

	resp, err := f.service.GetByID(context.Background(), appt.ID, ownerID, domain.RoleBusiness)

	require.NoError(t, err)
	assert.Equal(t, appt.ID, resp.ID)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusPending)

	_, err := f.service.GetByID(context.Background(), appt.ID, strangerID, domain.RoleClient)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_AdminSeesAny(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusPending)

	resp, err := f.service.GetByID(context.Background(), appt.ID, adminID, domain.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, appt.ID, resp.ID)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetByID(context.Background(), uuid.New(), clientID, domain.RoleClient)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

// GetUserAppointments

func TestGetUserAppointments_FiltersByStatus(t *testing.T) {
	f := newFixture()
	f.addAppointment(domain.StatusPending)
	f.addAppointment(domain.StatusCancelled)

	resp, err := f.service.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{
		UserID: clientID,
		Status: ptr.Ptr("pending"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "pending", resp.Appointments[0].Status)
}

func TestGetUserAppointments_InvalidStatus(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{
		UserID: clientID,
		Status: ptr.Ptr("scheduled"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

// GetBusinessAppointments

func TestGetBusinessAppointments_OwnerOnly(t *testing.T) {
	f := newFixture()
	f.addAppointment(domain.StatusPending)

	_, err := f.service.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
		UserID:     strangerID,
		BusinessID: businessID,
	}, domain.RoleClient)
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.service.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
		UserID:     ownerID,
		BusinessID: businessID,
	}, domain.RoleBusiness)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
}

func TestGetBusinessAppointments_InvalidDate(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
		UserID:     ownerID,
		BusinessID: businessID,
		Date:       ptr.Ptr("16.03.2026"),
	}, domain.RoleBusiness)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Cancel

func TestCancel_ClientCancelsPending(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusPending)

	err := f.service.Cancel(context.Background(), appt.ID, clientID, domain.RoleClient)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, f.apptRepo.appointments[appt.ID].Status)

	require.Len(t, f.publisher.messages, 1)
	msg := f.publisher.messages[0]
	assert.Equal(t, mailqueue.TypeAppointmentCancellation, msg.Type)
	assert.Equal(t, "client@example.com", msg.To)
}

func TestCancel_CompletedCannotBeCancelled(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusCompleted)

	err := f.service.Cancel(context.Background(), appt.ID, clientID, domain.RoleClient)

	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, f.publisher.messages)
}

func TestCancel_StrangerDenied(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusPending)

	err := f.service.Cancel(context.Background(), appt.ID, strangerID, domain.RoleClient)

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, f.apptRepo.appointments[appt.ID].Status)
}

// UpdateStatus

func TestUpdateStatus_OwnerConfirmsPending(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusPending)

	err := f.service.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		UserID: ownerID,
		Status: "confirmed",
	}, domain.RoleBusiness)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, f.apptRepo.appointments[appt.ID].Status)
}

func TestUpdateStatus_OwnerCancelsSendsMail(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusConfirmed)

	err := f.service.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		UserID: ownerID,
		Status: "cancelled",
	}, domain.RoleBusiness)

	require.NoError(t, err)
	require.Len(t, f.publisher.messages, 1)
	assert.Equal(t, mailqueue.TypeAppointmentCancellation, f.publisher.messages[0].Type)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusCancelled)

	err := f.service.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		UserID: ownerID,
		Status: "confirmed",
	}, domain.RoleBusiness)

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusPending)

	err := f.service.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		UserID: ownerID,
		Status: "approved",
	}, domain.RoleBusiness)

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_ClientDenied(t *testing.T) {
	f := newFixture()
	appt := f.addAppointment(domain.StatusPending)

	err := f.service.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{
		UserID: clientID,
		Status: "confirmed",
	}, domain.RoleClient)

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, f.apptRepo.appointments[appt.ID].Status)
}
