package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
	apptRepo "github.com/bookraft/appointment-service/internal/infra/storage/appointment"
	businessRepo "github.com/bookraft/appointment-service/internal/infra/storage/business"
	"github.com/bookraft/appointment-service/internal/service/appointments/models"
)

// Service сервис для работы с существующими бронированиями.
// Создание бронирований вынесено в отдельный usecase
type Service struct {
	apptRepo      AppointmentRepository
	businessRepo  BusinessRepository
	serviceRepo   ServiceRepository
	userRepo      UserRepository
	mailPublisher MailPublisher
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	apptRepo AppointmentRepository,
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	userRepo UserRepository,
	mailPublisher MailPublisher,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:      apptRepo,
		businessRepo:  businessRepo,
		serviceRepo:   serviceRepo,
		userRepo:      userRepo,
		mailPublisher: mailPublisher,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Доступно клиенту бронирования, владельцу бизнеса и администратору
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID int64, role domain.UserRole) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%d", id, userID)

	appt, err := s.getAppointment(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if err := s.checkAppointmentAccess(ctx, appt, userID, role, "GetByID"); err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetUserAppointments возвращает бронирования пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%d status=%v", req.UserID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.apptRepo.GetByClientID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: fetched %d appointments for user=%d", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetBusinessAppointments возвращает бронирования бизнеса с фильтрацией по дате и статусу
// Доступно владельцу бизнеса и администратору
func (s *Service) GetBusinessAppointments(ctx context.Context, req *models.GetBusinessAppointmentsRequest, role domain.UserRole) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetBusinessAppointments: fetching appointments for business=%d by user=%d", req.BusinessID, req.UserID)

	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID, role, "GetBusinessAppointments"); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessAppointments: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.apptRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessAppointments: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessAppointments: fetched %d appointments for business=%d", len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет бронирование
// Доступно клиенту бронирования, владельцу бизнеса и администратору
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, userID int64, role domain.UserRole) error {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%d", id, userID)

	appt, err := s.getAppointment(ctx, id, "Cancel")
	if err != nil {
		return err
	}

	if err := s.checkAppointmentAccess(ctx, appt, userID, role, "Cancel"); err != nil {
		return err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s", id, appt.Status)
		return ErrCannotCancel
	}

	if err := s.apptRepo.UpdateStatus(ctx, id, domain.StatusCancelled); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.publishAppointmentMail(ctx, appt, mailqueue.TypeAppointmentCancellation)

	s.logger.Info("Cancel: successfully cancelled appointment id=%s", id)
	return nil
}

// UpdateStatus меняет статус бронирования
// Доступно владельцу бизнеса и администратору, с проверкой допустимости перехода
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest, role domain.UserRole) error {
	s.logger.Info("UpdateStatus: updating appointment id=%s to status=%s by user=%d", id, req.Status, req.UserID)

	appt, err := s.getAppointment(ctx, id, "UpdateStatus")
	if err != nil {
		return err
	}

	if err := s.checkBusinessAccess(ctx, appt.BusinessID, req.UserID, role, "UpdateStatus"); err != nil {
		return err
	}

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%s", req.Status, id)
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, req.Status)
	}

	if !domain.ValidStatusTransition(appt.Status, newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for appointment id=%s", appt.Status, newStatus, id)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, appt.Status, newStatus)
	}

	if err := s.apptRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if newStatus == domain.StatusCancelled {
		s.publishAppointmentMail(ctx, appt, mailqueue.TypeAppointmentCancellation)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%s to status=%s", id, newStatus)
	return nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, id uuid.UUID, op string) (*domain.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// checkAppointmentAccess проверяет доступ к бронированию
// Клиент видит своё бронирование, владелец бизнеса и администратор - любое бронирование бизнеса
func (s *Service) checkAppointmentAccess(ctx context.Context, appt *domain.Appointment, userID int64, role domain.UserRole, op string) error {
	if appt.ClientID == userID || role == domain.RoleAdmin {
		return nil
	}
	return s.checkBusinessAccess(ctx, appt.BusinessID, userID, role, op)
}

// checkBusinessAccess проверяет, что пользователь владеет бизнесом или является администратором
func (s *Service) checkBusinessAccess(ctx context.Context, businessID int64, userID int64, role domain.UserRole, op string) error {
	if role == domain.RoleAdmin {
		return nil
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%d: %v", op, businessID, err)
		return fmt.Errorf("%w: %s - failed to get business: %v", ErrInternal, op, err)
	}

	if !business.IsOwnedBy(userID) {
		s.logger.Warn("%s: access denied for user=%d to business=%d", op, userID, businessID)
		return ErrAccessDenied
	}

	return nil
}

// publishAppointmentMail собирает данные письма и ставит его в очередь
// Ошибки отправки логируются и не влияют на результат операции
func (s *Service) publishAppointmentMail(ctx context.Context, appt *domain.Appointment, mailType string) {
	client, err := s.userRepo.GetByID(ctx, appt.ClientID)
	if err != nil {
		s.logger.Error("publishAppointmentMail: failed to get client id=%d: %v", appt.ClientID, err)
		return
	}

	business, err := s.businessRepo.GetByID(ctx, appt.BusinessID)
	if err != nil {
		s.logger.Error("publishAppointmentMail: failed to get business id=%d: %v", appt.BusinessID, err)
		return
	}

	svc, err := s.serviceRepo.GetByID(ctx, appt.ServiceID)
	if err != nil {
		s.logger.Error("publishAppointmentMail: failed to get service id=%d: %v", appt.ServiceID, err)
		return
	}

	msg := mailqueue.MailMessage{
		Type: mailType,
		To:   client.Email,
		Data: buildAppointmentMailData(appt, client, business, svc),
	}
	if err := s.mailPublisher.Publish(ctx, msg); err != nil {
		s.logger.Error("publishAppointmentMail: failed to publish %s for appointment id=%s: %v", mailType, appt.ID, err)
	}
}

func buildAppointmentMailData(appt *domain.Appointment, client *domain.User, business *domain.Business, svc *domain.Service) mailqueue.AppointmentMailData {
	data := mailqueue.AppointmentMailData{
		ClientName:      client.FullName(),
		ClientEmail:     client.Email,
		BusinessName:    business.Name,
		ServiceName:     svc.Name,
		ServicePrice:    svc.Price,
		DurationMinutes: svc.DurationMinutes,
		Date:            appt.Date.Format(domain.DateFormat),
		StartTime:       appt.StartTime.String(),
		EndTime:         appt.EndTime.String(),
	}
	if client.PhoneNumber != nil {
		data.ClientPhone = *client.PhoneNumber
	}
	if business.Address != nil {
		data.BusinessAddress = *business.Address
	}
	if business.Phone != nil {
		data.BusinessPhone = *business.Phone
	}
	if appt.Notes != nil {
		data.Notes = *appt.Notes
	}
	return data
}
