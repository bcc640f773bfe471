package domain

import "time"

// Session binds the SHA-256 digest of a bearer token to a user and an
// absolute expiry. The raw token is never persisted. Rows with
// ExpiresAt <= now are logically dead and removed lazily on next access.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	UserID    string    `gorm:"size:36;index;not null" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
