package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
	businessRepo "github.com/bookraft/appointment-service/internal/infra/storage/business"
	serviceRepo "github.com/bookraft/appointment-service/internal/infra/storage/service"
)

// UseCase use case для создания бронирования
type UseCase struct {
	apptRepo      AppointmentRepository
	businessRepo  BusinessRepository
	scheduleRepo  ScheduleRepository
	serviceRepo   ServiceRepository
	userRepo      UserRepository
	txManager     TransactionManager
	mailPublisher MailPublisher
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	businessRepo BusinessRepository,
	scheduleRepo ScheduleRepository,
	serviceRepo ServiceRepository,
	userRepo UserRepository,
	txManager TransactionManager,
	mailPublisher MailPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:      apptRepo,
		businessRepo:  businessRepo,
		scheduleRepo:  scheduleRepo,
		serviceRepo:   serviceRepo,
		userRepo:      userRepo,
		txManager:     txManager,
		mailPublisher: mailPublisher,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка занятости и вставка выполняются в сериализуемой транзакции,
// чтобы два клиента не заняли один слот одновременно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%d, business=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование бизнеса
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("CreateAppointment: business id=%d is inactive", req.BusinessID)
		return nil, ErrBusinessNotFound
	}

	// 4. Получаем услугу - её длительность определяет конец слота
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.BusinessID != req.BusinessID {
		uc.logger.Warn("CreateAppointment: service id=%d does not belong to business id=%d",
			req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}
	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 5. Вычисляем конец слота
	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: slot %s+%dmin does not fit into the day",
			req.StartTime, service.DurationMinutes)
		return nil, ErrOutsideWorkingHours
	}

	// 6. Дата не должна быть в прошлом
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateAppointment: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	var result *domain.Appointment

	// 7. Проверка расписания, занятости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Получаем конфигурацию дня недели
		day, err := uc.scheduleRepo.GetDayHours(txCtx, req.BusinessID, domain.WeekdayFromDate(req.Date))
		if err != nil {
			if errors.Is(err, businessRepo.ErrDayHoursNotFound) {
				uc.logger.Warn("CreateAppointment: no schedule for business=%d on %s",
					req.BusinessID, req.Date.Format(domain.DateFormat))
				return ErrBusinessClosed
			}
			uc.logger.Error("CreateAppointment: failed to get day hours: %v", err)
			return fmt.Errorf("%w: failed to get day hours: %v", ErrInternal, err)
		}
		if day.IsClosed || len(day.Periods) == 0 {
			uc.logger.Warn("CreateAppointment: business=%d is closed on %s",
				req.BusinessID, req.Date.Format(domain.DateFormat))
			return ErrBusinessClosed
		}

		// 7.2. Слот должен лежать в рабочем интервале и на сетке генерации
		if err := validateSlotInSchedule(day, req.StartTime, endTime); err != nil {
			uc.logger.Warn("CreateAppointment: slot %s-%s rejected: %v", req.StartTime, endTime, err)
			return err
		}

		// 7.3. Минимальный запас времени для бронирований на сегодня
		if err := validateNotice(req.Date, req.StartTime, now); err != nil {
			uc.logger.Warn("CreateAppointment: slot %s on %s starts too soon",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return err
		}

		// 7.4. Получаем занятые интервалы с блокировкой строк (FOR UPDATE)
		filter := domain.AppointmentsFilter{
			BusinessID: req.BusinessID,
			Date:       &req.Date,
			Statuses:   domain.BlockingStatuses,
		}
		appointments, err := uc.apptRepo.GetByBusinessWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 7.5. Проверяем пересечения: граничное касание интервалов допустимо
		for _, appt := range appointments {
			if !appt.IsBlocking() {
				continue
			}
			if req.StartTime.IsBefore(appt.EndTime) && endTime.IsAfter(appt.StartTime) {
				uc.logger.Warn("CreateAppointment: slot %s-%s overlaps appointment id=%s",
					req.StartTime, endTime, appt.ID)
				return ErrSlotNotAvailable
			}
		}

		// 7.6. Создаем бронирование
		created, err := uc.apptRepo.Create(txCtx, &domain.Appointment{
			ID:         uuid.New(),
			ClientID:   req.ClientID,
			BusinessID: req.BusinessID,
			ServiceID:  req.ServiceID,
			Date:       req.Date,
			StartTime:  req.StartTime,
			EndTime:    endTime,
			Status:     domain.StatusPending,
			Notes:      req.Notes,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%s", result.ID)

	// 8. Письма подтверждения ставятся в очередь после коммита.
	// Ошибки отправки логируются и не отменяют бронирование
	uc.sendConfirmationMails(ctx, result, business, service)

	return &Response{
		ID:         result.ID,
		ClientID:   result.ClientID,
		BusinessID: result.BusinessID,
		ServiceID:  result.ServiceID,
		Date:       result.Date,
		StartTime:  result.StartTime,
		EndTime:    result.EndTime,
		Status:     string(result.Status),
		Notes:      result.Notes,
		CreatedAt:  result.CreatedAt,
	}, nil
}

// sendConfirmationMails отправляет подтверждение клиенту и уведомление владельцу бизнеса
func (uc *UseCase) sendConfirmationMails(ctx context.Context, appt *domain.Appointment, business *domain.Business, service *domain.Service) {
	client, err := uc.userRepo.GetByID(ctx, appt.ClientID)
	if err != nil {
		uc.logger.Error("sendConfirmationMails: failed to get client id=%d: %v", appt.ClientID, err)
		return
	}

	data := buildMailData(appt, client, business, service)

	clientMsg := mailqueue.MailMessage{
		Type: mailqueue.TypeAppointmentConfirmationClient,
		To:   client.Email,
		Data: data,
	}
	if err := uc.mailPublisher.Publish(ctx, clientMsg); err != nil {
		uc.logger.Error("sendConfirmationMails: failed to publish client mail for appointment id=%s: %v", appt.ID, err)
		return
	}

	if err := uc.apptRepo.MarkConfirmationSent(ctx, appt.ID); err != nil {
		uc.logger.Error("sendConfirmationMails: failed to mark confirmation sent for appointment id=%s: %v", appt.ID, err)
	}

	// Уведомление владельцу, если у бизнеса указан email
	owner, err := uc.userRepo.GetByID(ctx, business.OwnerID)
	if err != nil {
		uc.logger.Error("sendConfirmationMails: failed to get owner id=%d: %v", business.OwnerID, err)
		return
	}

	ownerMsg := mailqueue.MailMessage{
		Type: mailqueue.TypeAppointmentNotificationOwner,
		To:   owner.Email,
		Data: data,
	}
	if err := uc.mailPublisher.Publish(ctx, ownerMsg); err != nil {
		uc.logger.Error("sendConfirmationMails: failed to publish owner mail for appointment id=%s: %v", appt.ID, err)
	}
}

func buildMailData(appt *domain.Appointment, client *domain.User, business *domain.Business, service *domain.Service) mailqueue.AppointmentMailData {
	data := mailqueue.AppointmentMailData{
		ClientName:      client.FullName(),
		ClientEmail:     client.Email,
		BusinessName:    business.Name,
		ServiceName:     service.Name,
		ServicePrice:    service.Price,
		DurationMinutes: service.DurationMinutes,
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
