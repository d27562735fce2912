package mailqueue

import "errors"

var (
	ErrQueueDeclare = errors.New("mail queue declare failed")
	ErrPublish      = errors.New("mail publish failed")
)
