package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleAdmin is the only privileged role; everything else is a regular member.
const RoleAdmin = "admin"

// User represents an account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	UserName     string      `gorm:"size:64;uniqueIndex;not null" json:"userName"`
	Email        string      `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string      `gorm:"size:255" json:"-"`
	Role         string      `gorm:"size:32" json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	Hobbies      []Hobby     `gorm:"many2many:user_hobbies" json:"-"`
	ForumPosts   []ForumPost `json:"-"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BeforeCreate assigns a uuid and timestamps when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate refreshes the UpdatedAt timestamp.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
