package domain

// Slot generation constants
const (
	// SlotIncrementMinutes шаг генерации слотов, не зависит от длительности услуги
	SlotIncrementMinutes = 15

	// SameDayBufferMinutes минимальный запас до начала слота при бронировании на сегодня
	SameDayBufferMinutes = 30
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxNotesLength            = 500
	MaxNameLength             = 100
	MaxLabelLength            = 50

	MinWeekday = 0 // понедельник
	MaxWeekday = 6 // воскресенье
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы бронирований, занимающих время
// Используются при расчёте доступных слотов
var BlockingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
