package models

import "time"

// Account is an authenticated identity, owned by the remote store and only
// read/incremented from here.
type Account struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"password"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	DailyLimit int       `json:"daily_limit"`
	TotalUsage int       `json:"total_usage"`
	IsActive   bool      `json:"is_active"`
}

// Expired is evaluated at check time, never cached: an account that was valid
// at login can expire mid-session.
func (a *Account) Expired(now time.Time) bool {
	return a.ExpiresAt.Before(now)
}

// AccountInfo is an Account together with today's usage, for status display.
type AccountInfo struct {
	Account
	TodayUsage int
	Remaining  int
}
