package signup

import "time"

// PendingRegistration is a signup waiting for its emailed token
type PendingRegistration struct {
	Email        string
	DisplayName  string
	PasswordHash string
	Nickname     string
	Token        string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Expired reports whether the token can no longer be redeemed at now
func (p *PendingRegistration) Expired(now time.Time) bool {
	return p.ExpiresAt.Before(now)
}
