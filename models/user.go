package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Valid user roles. Only admins may mutate categories, assets, or users.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      string         `gorm:"default:client" json:"role"` // client, admin
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsValidRole reports whether role is one of the known role names.
func IsValidRole(role string) bool {
	return role == RoleClient || role == RoleAdmin
}
