package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookraft/appointment-service/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a booked appointment between a client and a business
type Appointment struct {
	ID         uuid.UUID
	ClientID   int64
	BusinessID int64
	ServiceID  int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	Status     AppointmentStatus
	Notes      *string

	ConfirmationSent bool
	ReminderSent     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the appointment blocks availability.
// Only pending and confirmed appointments occupy their time interval.
func (a *Appointment) IsBlocking() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// ValidStatus returns true if status is one of the known appointment statuses
func ValidStatus(status AppointmentStatus) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// ValidStatusTransition проверяет допустимость перехода статуса
// pending -> confirmed | cancelled; confirmed -> cancelled | completed
func ValidStatusTransition(from, to AppointmentStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled || to == StatusCompleted
	default:
		return false
	}
}

// AppointmentsFilter фильтр для выборки бронирований бизнеса
type AppointmentsFilter struct {
	BusinessID int64               // Обязательный параметр
	Date       *time.Time          // Конкретная дата (опционально)
	Statuses   []AppointmentStatus // Фильтр по статусам (опционально, пустой = все)
}
