package domain

import "github.com/bookraft/appointment-service/pkg/types"

// AvailableSlot represents a bookable time interval on a given date.
// Slots are computed on demand and never persisted.
type AvailableSlot struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	PeriodLabel string
}

// Overlaps returns true if the slot interval really intersects [start, end).
// Touching at a boundary is not an overlap.
func (s *AvailableSlot) Overlaps(start, end types.TimeString) bool {
	return s.StartTime.IsBefore(end) && s.EndTime.IsAfter(start)
}
