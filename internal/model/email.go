package model

import "time"

const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

type EmailLog struct {
	ID      string
	UserID  string
	Subject string
	Status  string
	Error   *string
	SentAt  time.Time
}
