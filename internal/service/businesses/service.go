package businesses

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookraft/appointment-service/internal/domain"
	businessRepo "github.com/bookraft/appointment-service/internal/infra/storage/business"
	serviceRepo "github.com/bookraft/appointment-service/internal/infra/storage/service"
	"github.com/bookraft/appointment-service/internal/service/businesses/models"
)

// Service сервис для работы с бизнесами, расписаниями и услугами
type Service struct {
	businessRepo BusinessRepository
	hoursRepo    HoursRepository
	serviceRepo  ServiceRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бизнесов
func NewService(
	businessRepo BusinessRepository,
	hoursRepo HoursRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		businessRepo: businessRepo,
		hoursRepo:    hoursRepo,
		serviceRepo:  serviceRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает бизнес. Доступно пользователям с ролью business или admin
func (s *Service) Create(ctx context.Context, req *models.CreateBusinessRequest, role domain.UserRole) (*models.BusinessResponse, error) {
	s.logger.Info("Create: creating business %q for owner=%d", req.Name, req.OwnerID)

	if role != domain.RoleBusiness && role != domain.RoleAdmin {
		s.logger.Warn("Create: user=%d with role=%s cannot create businesses", req.OwnerID, role)
		return nil, ErrAccessDenied
	}

	if req.Name == "" || len(req.Name) > domain.MaxNameLength {
		s.logger.Warn("Create: invalid business name for owner=%d", req.OwnerID)
		return nil, fmt.Errorf("%w: invalid name", ErrInvalidInput)
	}

	created, err := s.businessRepo.Create(ctx, req.ToDomainBusiness())
	if err != nil {
		s.logger.Error("Create: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created business id=%d", created.ID)
	return models.FromDomainBusiness(created), nil
}

// GetByID получает бизнес по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BusinessResponse, error) {
	s.logger.Info("GetByID: fetching business id=%d", id)

	business, err := s.getBusiness(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	return models.FromDomainBusiness(business), nil
}

// List возвращает список активных бизнесов
func (s *Service) List(ctx context.Context) (*models.BusinessListResponse, error) {
	s.logger.Info("List: fetching active businesses")

	businesses, err := s.businessRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d businesses", len(businesses))
	return models.FromDomainBusinessList(businesses), nil
}

// Update обновляет данные бизнеса. Доступно владельцу или администратору
func (s *Service) Update(ctx context.Context, id int64, userID int64, role domain.UserRole, req *models.UpdateBusinessRequest) (*models.BusinessResponse, error) {
	s.logger.Info("Update: updating business id=%d by user=%d", id, userID)

	business, err := s.getBusiness(ctx, id, "Update")
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnerAccess(business, userID, role, "Update"); err != nil {
		return nil, err
	}

	applyBusinessUpdate(business, req)

	if business.Name == "" || len(business.Name) > domain.MaxNameLength {
		s.logger.Warn("Update: invalid business name for id=%d", id)
		return nil, fmt.Errorf("%w: invalid name", ErrInvalidInput)
	}

	if err := s.businessRepo.Update(ctx, business); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Update: repository error for business id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated business id=%d", id)
	return models.FromDomainBusiness(business), nil
}

// GetWeekSchedule возвращает недельное расписание бизнеса
func (s *Service) GetWeekSchedule(ctx context.Context, businessID int64) (*models.WeekScheduleResponse, error) {
	s.logger.Info("GetWeekSchedule: fetching schedule for business=%d", businessID)

	if _, err := s.getBusiness(ctx, businessID, "GetWeekSchedule"); err != nil {
		return nil, err
	}

	days, err := s.hoursRepo.GetWeek(ctx, businessID)
	if err != nil {
		s.logger.Error("GetWeekSchedule: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetWeekSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeek(businessID, days), nil
}

// UpdateWeekSchedule полностью заменяет недельное расписание бизнеса.
// Замена выполняется в одной транзакции: старые дни удаляются, новые вставляются.
func (s *Service) UpdateWeekSchedule(ctx context.Context, businessID int64, userID int64, role domain.UserRole, req *models.UpdateHoursRequest) (*models.WeekScheduleResponse, error) {
	s.logger.Info("UpdateWeekSchedule: replacing schedule for business=%d by user=%d", businessID, userID)

	business, err := s.getBusiness(ctx, businessID, "UpdateWeekSchedule")
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnerAccess(business, userID, role, "UpdateWeekSchedule"); err != nil {
		return nil, err
	}

	days, err := req.ToDomainDayHours(businessID)
	if err != nil {
		s.logger.Warn("UpdateWeekSchedule: invalid schedule for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidHours, err)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.hoursRepo.ReplaceWeek(ctx, businessID, days)
	})
	if err != nil {
		s.logger.Error("UpdateWeekSchedule: failed to replace schedule for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: UpdateWeekSchedule - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWeekSchedule: successfully replaced schedule for business=%d", businessID)
	return s.GetWeekSchedule(ctx, businessID)
}

// CreateService создает услугу бизнеса. Доступно владельцу или администратору
func (s *Service) CreateService(ctx context.Context, businessID int64, userID int64, role domain.UserRole, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: creating service %q for business=%d", req.Name, businessID)

	business, err := s.getBusiness(ctx, businessID, "CreateService")
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnerAccess(business, userID, role, "CreateService"); err != nil {
		return nil, err
	}

	if err := validateServiceInput(req.Name, req.DurationMinutes, req.Price); err != nil {
		s.logger.Warn("CreateService: invalid input for business=%d: %v", businessID, err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, &domain.Service{
		BusinessID:      businessID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	})
	if err != nil {
		s.logger.Error("CreateService: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: successfully created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// ListServices возвращает услуги бизнеса. Клиентам показываются только активные
func (s *Service) ListServices(ctx context.Context, businessID int64, onlyActive bool) (*models.ServiceListResponse, error) {
	s.logger.Info("ListServices: fetching services for business=%d onlyActive=%t", businessID, onlyActive)

	if _, err := s.getBusiness(ctx, businessID, "ListServices"); err != nil {
		return nil, err
	}

	services, err := s.serviceRepo.ListByBusiness(ctx, businessID, onlyActive)
	if err != nil {
		s.logger.Error("ListServices: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// UpdateService обновляет услугу. Доступно владельцу или администратору
func (s *Service) UpdateService(ctx context.Context, serviceID int64, userID int64, role domain.UserRole, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: updating service id=%d by user=%d", serviceID, userID)

	svc, err := s.getService(ctx, serviceID, "UpdateService")
	if err != nil {
		return nil, err
	}

	business, err := s.getBusiness(ctx, svc.BusinessID, "UpdateService")
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnerAccess(business, userID, role, "UpdateService"); err != nil {
		return nil, err
	}

	applyServiceUpdate(svc, req)

	if err := validateServiceInput(svc.Name, svc.DurationMinutes, svc.Price); err != nil {
		s.logger.Warn("UpdateService: invalid input for service id=%d: %v", serviceID, err)
		return nil, err
	}

	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpdateService: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateService: successfully updated service id=%d", serviceID)
	return models.FromDomainService(svc), nil
}

// DeleteService деактивирует услугу. Существующие бронирования не затрагиваются
func (s *Service) DeleteService(ctx context.Context, serviceID int64, userID int64, role domain.UserRole) error {
	s.logger.Info("DeleteService: deactivating service id=%d by user=%d", serviceID, userID)

	svc, err := s.getService(ctx, serviceID, "DeleteService")
	if err != nil {
		return err
	}

	business, err := s.getBusiness(ctx, svc.BusinessID, "DeleteService")
	if err != nil {
		return err
	}

	if err := s.checkOwnerAccess(business, userID, role, "DeleteService"); err != nil {
		return err
	}

	if err := s.serviceRepo.Deactivate(ctx, serviceID); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("DeleteService: repository error for service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: DeleteService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteService: successfully deactivated service id=%d", serviceID)
	return nil
}

// Вспомогательные методы

func (s *Service) getBusiness(ctx context.Context, id int64, op string) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, id)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: repository error for business id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return business, nil
}

func (s *Service) getService(ctx context.Context, id int64, op string) (*domain.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d not found", op, id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("%s: repository error for service id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return svc, nil
}

// checkOwnerAccess проверяет, что пользователь владеет бизнесом или является администратором
func (s *Service) checkOwnerAccess(business *domain.Business, userID int64, role domain.UserRole, op string) error {
	if business.IsOwnedBy(userID) || role == domain.RoleAdmin {
		return nil
	}
	s.logger.Warn("%s: access denied for user=%d to business=%d", op, userID, business.ID)
	return ErrAccessDenied
}

func applyBusinessUpdate(business *domain.Business, req *models.UpdateBusinessRequest) {
	if req.Name != nil {
		business.Name = *req.Name
	}
	if req.Description != nil {
		business.Description = req.Description
	}
	if req.Address != nil {
		business.Address = req.Address
	}
	if req.Phone != nil {
		business.Phone = req.Phone
	}
	if req.Email != nil {
		business.Email = req.Email
	}
	if req.IsActive != nil {
		business.IsActive = *req.IsActive
	}
}

func applyServiceUpdate(svc *domain.Service, req *models.UpdateServiceRequest) {
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = req.Description
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
}

func validateServiceInput(name string, durationMinutes int, price float64) error {
	if name == "" || len(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: invalid name", ErrInvalidInput)
	}
	if durationMinutes < domain.MinServiceDurationMinutes || durationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}
