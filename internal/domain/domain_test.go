package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bookraft/appointment-service/pkg/types"
)

func TestAvailableSlot_Overlaps(t *testing.T) {
	slot := AvailableSlot{StartTime: "10:00", EndTime: "10:30"}

	tests := []struct {
		name  string
		start types.TimeString
		end   types.TimeString
		want  bool
	}{
		{name: "identical interval", start: "10:00", end: "10:30", want: true},
		{name: "partial overlap at start", start: "09:45", end: "10:15", want: true},
		{name: "partial overlap at end", start: "10:15", end: "10:45", want: true},
		{name: "slot inside interval", start: "09:00", end: "12:00", want: true},
		{name: "interval inside slot", start: "10:10", end: "10:20", want: true},
		{name: "touching before is not overlap", start: "09:30", end: "10:00", want: false},
		{name: "touching after is not overlap", start: "10:30", end: "11:00", want: false},
		{name: "fully before", start: "08:00", end: "09:00", want: false},
		{name: "fully after", start: "11:00", end: "12:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slot.Overlaps(tt.start, tt.end))
		})
	}
}

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidStatusTransition(tt.from, tt.to),
			"transition %s -> %s", tt.from, tt.to)
	}
}

func TestAppointment_IsBlocking(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).IsBlocking())
	assert.True(t, (&Appointment{Status: StatusConfirmed}).IsBlocking())
	assert.False(t, (&Appointment{Status: StatusCancelled}).IsBlocking())
	assert.False(t, (&Appointment{Status: StatusCompleted}).IsBlocking())
}

func TestAppointment_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Appointment{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusCancelled}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusCompleted}).CanBeCancelled())
}

func TestWeekdayFromDate(t *testing.T) {
	// 2026-03-16 понедельник
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, WeekdayFromDate(monday.AddDate(0, 0, i)))
	}
}

func TestTimePeriod_IsValid(t *testing.T) {
	assert.True(t, (&TimePeriod{StartTime: "09:00", EndTime: "12:00"}).IsValid())
	assert.False(t, (&TimePeriod{StartTime: "12:00", EndTime: "12:00"}).IsValid())
	assert.False(t, (&TimePeriod{StartTime: "13:00", EndTime: "12:00"}).IsValid())
}

func TestUserRoles(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleClient}).IsAdmin())

	assert.True(t, (&User{Role: RoleBusiness}).CanOwnBusiness())
	assert.True(t, (&User{Role: RoleAdmin}).CanOwnBusiness())
	assert.False(t, (&User{Role: RoleClient}).CanOwnBusiness())

	assert.True(t, ValidRole(RoleClient))
	assert.False(t, ValidRole("manager"))
}

func TestBusiness_IsOwnedBy(t *testing.T) {
	b := &Business{OwnerID: 7}
	assert.True(t, b.IsOwnedBy(7))
	assert.False(t, b.IsOwnedBy(8))
}
