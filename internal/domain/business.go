package domain

import (
	"time"

	"github.com/bookraft/appointment-service/pkg/types"
)

// Business represents a business that clients book appointments with
type Business struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description *string
	Address     *string
	Phone       *string
	Email       *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwnedBy returns true if the business belongs to the given user
func (b *Business) IsOwnedBy(userID int64) bool {
	return b.OwnerID == userID
}

// DayHours represents the opening configuration of a business for one weekday.
// Weekday is Monday-based: 0=Monday .. 6=Sunday. One row per (business, weekday).
type DayHours struct {
	ID         int64
	BusinessID int64
	Weekday    int
	IsClosed   bool
	Periods    []TimePeriod
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TimePeriod represents one bookable interval within a day, e.g. "Morning" 09:00-12:00.
// A day may have zero, one or several periods; overlapping periods are allowed
// and are processed independently.
type TimePeriod struct {
	ID         int64
	DayHoursID int64
	StartTime  types.TimeString
	EndTime    types.TimeString
	Label      *string
	CreatedAt  time.Time
}

// IsValid returns true if the period has a positive length
func (p *TimePeriod) IsValid() bool {
	return p.StartTime.IsBefore(p.EndTime)
}

// WeekdayFromDate возвращает день недели в нумерации 0=понедельник .. 6=воскресенье
// time.Weekday нумерует с воскресенья, поэтому сдвигаем
func WeekdayFromDate(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
