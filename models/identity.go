package models

import "time"

// Identity is the login account behind a guest (or an admin). On provisioning
// the invite code is stored here as a bcrypt one-time password; guests may
// replace it after first login.
type Identity struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Identity) TableName() string {
	return "identities"
}
