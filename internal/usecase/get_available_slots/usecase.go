package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookraft/appointment-service/internal/domain"
	businessRepo "github.com/bookraft/appointment-service/internal/infra/storage/business"
	serviceRepo "github.com/bookraft/appointment-service/internal/infra/storage/service"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	businessRepo BusinessRepository
	scheduleRepo ScheduleRepository
	serviceRepo  ServiceRepository
	apptRepo     AppointmentRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	scheduleRepo ScheduleRepository,
	serviceRepo ServiceRepository,
	apptRepo AppointmentRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo: businessRepo,
		scheduleRepo: scheduleRepo,
		serviceRepo:  serviceRepo,
		apptRepo:     apptRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование бизнеса
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Получаем услугу - её длительность определяет длину слота
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Услуга должна принадлежать бизнесу из запроса
	if service.BusinessID != req.BusinessID {
		uc.logger.Warn("GetAvailableSlots: service id=%d does not belong to business id=%d",
			req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}

	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	if !service.HasValidDuration() {
		uc.logger.Warn("GetAvailableSlots: service id=%d has invalid duration=%d",
			req.ServiceID, service.DurationMinutes)
		return nil, ErrInvalidDuration
	}

	// 5. Даты в прошлом дают пустой результат, не ошибку
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 6. Получаем конфигурацию дня недели
	day, err := uc.scheduleRepo.GetDayHours(ctx, req.BusinessID, domain.WeekdayFromDate(req.Date))
	if err != nil {
		if errors.Is(err, businessRepo.ErrDayHoursNotFound) {
			// День не настроен - бизнес в этот день не работает
			uc.logger.Info("GetAvailableSlots: no schedule for business=%d on %s",
				req.BusinessID, req.Date.Format(domain.DateFormat))
			return uc.emptyResponse(req), nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get day hours for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get day hours: %v", ErrInternal, err)
	}

	// 7. Получаем занятые интервалы на дату
	appointments, err := uc.apptRepo.GetBlockingByBusinessAndDate(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 8. Генерируем слоты
	slots, err := generateDaySlots(day, service.DurationMinutes, appointments, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, service=%d, date=%s",
		len(slots), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:       req.Date,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Slots:      fromDomainSlots(slots),
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:       req.Date,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Slots:      []Slot{},
	}
}
