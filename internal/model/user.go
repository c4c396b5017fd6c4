package model

import "time"

// Roles assignable to a user.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a registered library member or administrator.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:255;not null;index"`
	Surname      string    `json:"surname" gorm:"size:255"`
	NationalID   *string   `json:"national_id,omitempty" gorm:"size:32;uniqueIndex"`
	Phone        string    `json:"phone,omitempty" gorm:"size:32"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:50;default:'USER'"`
	RegisteredAt time.Time `json:"registered_at"`
	// ResetToken is nil unless a password recovery is in flight. A non-nil
	// token always carries a non-nil expiry.
	ResetToken       *string    `json:"-" gorm:"size:255;index"`
	ResetTokenExpiry *time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName is the full name used in outbound notifications.
func (u *User) DisplayName() string {
	if u.Surname == "" {
		return u.Username
	}
	return u.Username + " " + u.Surname
}
