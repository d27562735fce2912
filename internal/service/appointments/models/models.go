package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bookraft/appointment-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date")
)

// Request модели

// GetUserAppointmentsRequest запрос бронирований пользователя
type GetUserAppointmentsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetBusinessAppointmentsRequest запрос бронирований бизнеса
type GetBusinessAppointmentsRequest struct {
	UserID     int64   `json:"userId"`
	BusinessID int64   `json:"businessId"`
	Date       *string `json:"date,omitempty"`   // "2026-03-15"
	Status     *string `json:"status,omitempty"`
}

// UpdateStatusRequest запрос на изменение статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		BusinessID: r.BusinessID,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return filter, ErrInvalidDate
		}
		filter.Date = &date
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.AppointmentStatus{status}
	}

	return filter, nil
}

// ToDomainStatus конвертирует строку в domain статус
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !domain.ValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Response модели

// AppointmentResponse ответ с данными бронирования
type AppointmentResponse struct {
	ID         uuid.UUID `json:"id"`
	ClientID   int64     `json:"clientId"`
	BusinessID int64     `json:"businessId"`
	ServiceID  int64     `json:"serviceId"`
	Date       string    `json:"date"`      // "2026-03-15"
	StartTime  string    `json:"startTime"` // "10:00"
	EndTime    string    `json:"endTime"`   // "10:30"
	Status     string    `json:"status"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  string    `json:"createdAt"` // RFC3339
}

// AppointmentListResponse список бронирований
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain.Appointment в response модель
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:         a.ID,
		ClientID:   a.ClientID,
		BusinessID: a.BusinessID,
		ServiceID:  a.ServiceID,
		Date:       a.Date.Format(domain.DateFormat),
		StartTime:  a.StartTime.String(),
		EndTime:    a.EndTime.String(),
		Status:     string(a.Status),
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}

// FromDomainAppointmentList конвертирует список бронирований
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]*AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, FromDomainAppointment(a))
	}
	return resp
}
