package model

import "time"

const (
	DefaultSendTime = "08:00"
	DefaultTimezone = "Asia/Seoul"
	DefaultMarket   = "US"
)

type User struct {
	ID           string
	Email        string
	Name         *string
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName is the name used to greet the user, falling back to the email.
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

type EmailSettings struct {
	ID       string
	UserID   string
	Enabled  bool
	SendTime string
	Timezone string
}

func DefaultEmailSettings(userID string) EmailSettings {
	return EmailSettings{
		UserID:   userID,
		Enabled:  true,
		SendTime: DefaultSendTime,
		Timezone: DefaultTimezone,
	}
}

// DigestRecipient is a user loaded together with the watchlist and settings,
// in the shape the digest run consumes.
type DigestRecipient struct {
	User      User
	Settings  *EmailSettings
	Watchlist []Stock
}
