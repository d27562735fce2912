package mailqueue

// Типы почтовых сообщений, обрабатываемых mailworker
const (
	TypeEmailVerification             = "email_verification"
	TypePasswordReset                 = "password_reset"
	TypeAppointmentConfirmationClient = "appointment_confirmation_client"
	TypeAppointmentNotificationOwner  = "appointment_notification_owner"
	TypeAppointmentCancellation       = "appointment_cancellation"
	TypeAppointmentReminder           = "appointment_reminder"
)

// MailMessage сообщение в очереди почты
// Data содержит payload, специфичный для типа сообщения
type MailMessage struct {
	Type string      `json:"type"`
	To   string      `json:"to"`
	Data interface{} `json:"data"`
}

// VerificationData данные письма с подтверждением email
type VerificationData struct {
	Name     string `json:"name"`
	Token    string `json:"token"`
	TTLHours int    `json:"ttlHours"`
}

// PasswordResetData данные письма для сброса пароля
type PasswordResetData struct {
	Name       string `json:"name"`
	Token      string `json:"token"`
	TTLMinutes int    `json:"ttlMinutes"`
}

// AppointmentMailData данные писем о бронировании
// Используется для подтверждений, уведомлений владельцу, отмен и напоминаний
type AppointmentMailData struct {
	ClientName      string  `json:"clientName"`
	ClientEmail     string  `json:"clientEmail"`
	ClientPhone     string  `json:"clientPhone,omitempty"`
	BusinessName    string  `json:"businessName"`
	BusinessAddress string  `json:"businessAddress,omitempty"`
	BusinessPhone   string  `json:"businessPhone,omitempty"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	DurationMinutes int     `json:"durationMinutes"`
	Date            string  `json:"date"`      // YYYY-MM-DD
	StartTime       string  `json:"startTime"` // HH:MM
	EndTime         string  `json:"endTime"`   // HH:MM
	Notes           string  `json:"notes,omitempty"`
}
