package models

import (
	"errors"
	"fmt"

	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/pkg/types"
)

var (
	// ErrInvalidPeriod возвращается при некорректном временном интервале
	ErrInvalidPeriod = errors.New("invalid time period")

	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// Request модели

// CreateBusinessRequest запрос на создание бизнеса
type CreateBusinessRequest struct {
	OwnerID     int64   `json:"-"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// UpdateBusinessRequest запрос на обновление бизнеса
type UpdateBusinessRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// PeriodInput интервал рабочего времени в запросе
type PeriodInput struct {
	StartTime string  `json:"startTime"` // "09:00"
	EndTime   string  `json:"endTime"`   // "13:00"
	Label     *string `json:"label,omitempty"`
}

// DayHoursInput конфигурация одного дня недели в запросе
type DayHoursInput struct {
	Weekday  int           `json:"weekday"` // 0=понедельник .. 6=воскресенье
	IsClosed bool          `json:"isClosed"`
	Periods  []PeriodInput `json:"periods"`
}

// UpdateHoursRequest запрос на полную замену недельного расписания
type UpdateHoursRequest struct {
	Days []DayHoursInput `json:"days"`
}

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// UpdateServiceRequest запрос на обновление услуги
type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

// Response модели

// BusinessResponse ответ с данными бизнеса
type BusinessResponse struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"ownerId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	IsActive    bool    `json:"isActive"`
}

// BusinessListResponse список бизнесов
type BusinessListResponse struct {
	Businesses []*BusinessResponse `json:"businesses"`
}

// PeriodResponse интервал рабочего времени в ответе
type PeriodResponse struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Label     *string `json:"label,omitempty"`
}

// DayHoursResponse конфигурация одного дня недели в ответе
type DayHoursResponse struct {
	Weekday  int              `json:"weekday"`
	IsClosed bool             `json:"isClosed"`
	Periods  []PeriodResponse `json:"periods"`
}

// WeekScheduleResponse недельное расписание бизнеса
type WeekScheduleResponse struct {
	BusinessID int64               `json:"businessId"`
	Days       []*DayHoursResponse `json:"days"`
}

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"businessId"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"isActive"`
}

// ServiceListResponse список услуг бизнеса
type ServiceListResponse struct {
	Services []*ServiceResponse `json:"services"`
}

// Конвертация в domain

// ToDomainBusiness конвертирует запрос на создание в domain модель
func (r *CreateBusinessRequest) ToDomainBusiness() *domain.Business {
	return &domain.Business{
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		Phone:       r.Phone,
		Email:       r.Email,
		IsActive:    true,
	}
}

// ToDomainDayHours конвертирует недельное расписание в domain модели
// Проверяет дни недели и корректность интервалов
func (r *UpdateHoursRequest) ToDomainDayHours(businessID int64) ([]*domain.DayHours, error) {
	days := make([]*domain.DayHours, 0, len(r.Days))
	seen := make(map[int]bool, len(r.Days))

	for _, d := range r.Days {
		if d.Weekday < domain.MinWeekday || d.Weekday > domain.MaxWeekday {
			return nil, fmt.Errorf("%w: weekday %d", ErrInvalidWeekday, d.Weekday)
		}
		if seen[d.Weekday] {
			return nil, fmt.Errorf("%w: duplicate weekday %d", ErrInvalidWeekday, d.Weekday)
		}
		seen[d.Weekday] = true

		day := &domain.DayHours{
			BusinessID: businessID,
			Weekday:    d.Weekday,
			IsClosed:   d.IsClosed,
		}

		for _, p := range d.Periods {
			period, err := toDomainPeriod(p)
			if err != nil {
				return nil, err
			}
			day.Periods = append(day.Periods, period)
		}

		days = append(days, day)
	}

	return days, nil
}

func toDomainPeriod(p PeriodInput) (domain.TimePeriod, error) {
	start, err := types.NewTimeStringFromString(p.StartTime)
	if err != nil {
		return domain.TimePeriod{}, fmt.Errorf("%w: start %q", ErrInvalidPeriod, p.StartTime)
	}
	end, err := types.NewTimeStringFromString(p.EndTime)
	if err != nil {
		return domain.TimePeriod{}, fmt.Errorf("%w: end %q", ErrInvalidPeriod, p.EndTime)
	}

	period := domain.TimePeriod{
		StartTime: start,
		EndTime:   end,
		Label:     p.Label,
	}
	if !period.IsValid() {
		return domain.TimePeriod{}, fmt.Errorf("%w: %s-%s", ErrInvalidPeriod, p.StartTime, p.EndTime)
	}

	return period, nil
}

// Конвертация из domain

// FromDomainBusiness конвертирует domain.Business в response модель
func FromDomainBusiness(b *domain.Business) *BusinessResponse {
	return &BusinessResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		Address:     b.Address,
		Phone:       b.Phone,
		Email:       b.Email,
		IsActive:    b.IsActive,
	}
}

// FromDomainBusinessList конвертирует список бизнесов
func FromDomainBusinessList(businesses []*domain.Business) *BusinessListResponse {
	resp := &BusinessListResponse{
		Businesses: make([]*BusinessResponse, 0, len(businesses)),
	}
	for _, b := range businesses {
		resp.Businesses = append(resp.Businesses, FromDomainBusiness(b))
	}
	return resp
}

// FromDomainWeek конвертирует недельное расписание
func FromDomainWeek(businessID int64, days []*domain.DayHours) *WeekScheduleResponse {
	resp := &WeekScheduleResponse{
		BusinessID: businessID,
		Days:       make([]*DayHoursResponse, 0, len(days)),
	}

	for _, d := range days {
		day := &DayHoursResponse{
			Weekday:  d.Weekday,
			IsClosed: d.IsClosed,
			Periods:  make([]PeriodResponse, 0, len(d.Periods)),
		}
		for _, p := range d.Periods {
			day.Periods = append(day.Periods, PeriodResponse{
				StartTime: p.StartTime.String(),
				EndTime:   p.EndTime.String(),
				Label:     p.Label,
			})
		}
		resp.Days = append(resp.Days, day)
	}

	return resp
}

// FromDomainService конвертирует domain.Service в response модель
func FromDomainService(s *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		BusinessID:      s.BusinessID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsActive:        s.IsActive,
	}
}

// FromDomainServiceList конвертирует список услуг
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]*ServiceResponse, 0, len(services)),
	}
	for _, s := range services {
		resp.Services = append(resp.Services, FromDomainService(s))
	}
	return resp
}
