package main

import (
	"strings"
	"text/template"

	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
)

// Темы писем по типу сообщения
var subjects = map[string]string{
	mailqueue.TypeEmailVerification:             "Подтверждение email",
	mailqueue.TypePasswordReset:                 "Сброс пароля",
	mailqueue.TypeAppointmentConfirmationClient: "Ваша запись создана",
	mailqueue.TypeAppointmentNotificationOwner:  "Новая запись клиента",
	mailqueue.TypeAppointmentCancellation:       "Запись отменена",
	mailqueue.TypeAppointmentReminder:           "Напоминание о записи",
}

const verificationTmpl = `Здравствуйте, {{.Name}}!

Спасибо за регистрацию. Чтобы подтвердить email, используйте код:

    {{.Token}}

Код действителен {{.TTLHours}} ч. Если вы не регистрировались, просто проигнорируйте это письмо.
`

const passwordResetTmpl = `Здравствуйте, {{.Name}}!

Вы запросили сброс пароля. Используйте код:

    {{.Token}}

Код действителен {{.TTLMinutes}} мин. Если вы не запрашивали сброс, проигнорируйте это письмо.
`

const confirmationClientTmpl = `Здравствуйте, {{.ClientName}}!

Ваша запись создана и ожидает подтверждения:

  Услуга:       {{.ServiceName}} ({{.DurationMinutes}} мин, {{.ServicePrice}} ₽)
  Где:          {{.BusinessName}}{{if .BusinessAddress}}, {{.BusinessAddress}}{{end}}
  Когда:        {{.Date}}, {{.StartTime}} - {{.EndTime}}
{{if .BusinessPhone}}  Телефон:      {{.BusinessPhone}}
{{end}}{{if .Notes}}  Комментарий:  {{.Notes}}
{{end}}`

const notificationOwnerTmpl = `Новая запись в {{.BusinessName}}:

  Клиент:       {{.ClientName}} ({{.ClientEmail}}{{if .ClientPhone}}, {{.ClientPhone}}{{end}})
  Услуга:       {{.ServiceName}} ({{.DurationMinutes}} мин)
  Когда:        {{.Date}}, {{.StartTime}} - {{.EndTime}}
{{if .Notes}}  Комментарий:  {{.Notes}}
{{end}}`

const cancellationTmpl = `Здравствуйте, {{.ClientName}}!

Ваша запись отменена:

  Услуга:  {{.ServiceName}}
  Где:     {{.BusinessName}}
  Когда:   {{.Date}}, {{.StartTime}} - {{.EndTime}}

Вы можете выбрать другое время в любой момент.
`

const reminderTmpl = `Здравствуйте, {{.ClientName}}!

Напоминаем о вашей записи:

  Услуга:  {{.ServiceName}}
  Где:     {{.BusinessName}}{{if .BusinessAddress}}, {{.BusinessAddress}}{{end}}
  Когда:   {{.Date}}, {{.StartTime}} - {{.EndTime}}

Ждём вас!
`

var templates = map[string]*template.Template{
	mailqueue.TypeEmailVerification:             template.Must(template.New(mailqueue.TypeEmailVerification).Parse(verificationTmpl)),
	mailqueue.TypePasswordReset:                 template.Must(template.New(mailqueue.TypePasswordReset).Parse(passwordResetTmpl)),
	mailqueue.TypeAppointmentConfirmationClient: template.Must(template.New(mailqueue.TypeAppointmentConfirmationClient).Parse(confirmationClientTmpl)),
	mailqueue.TypeAppointmentNotificationOwner:  template.Must(template.New(mailqueue.TypeAppointmentNotificationOwner).Parse(notificationOwnerTmpl)),
	mailqueue.TypeAppointmentCancellation:       template.Must(template.New(mailqueue.TypeAppointmentCancellation).Parse(cancellationTmpl)),
	mailqueue.TypeAppointmentReminder:           template.Must(template.New(mailqueue.TypeAppointmentReminder).Parse(reminderTmpl)),
}

func renderBody(mailType string, data interface{}) (string, error) {
	tmpl, ok := templates[mailType]
	if !ok {
		return "", errUnknownMailType
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
