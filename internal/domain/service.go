package domain

import "time"

// Service represents a bookable service offered by a business
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasValidDuration returns true if the service duration is positive
func (s *Service) HasValidDuration() bool {
	return s.DurationMinutes > 0
}
