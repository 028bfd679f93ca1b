package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node in the two-level genre hierarchy. A nil ParentID marks a
// main category (genre); a non-nil ParentID marks a sub-category (item) whose
// parent must itself be a main category.
type Category struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name          string         `gorm:"not null;index" json:"name"`
	ParentID      *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id"`
	Parent        *Category      `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Episodes      int            `gorm:"default:0" json:"episodes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Subcategories []Category     `gorm:"foreignKey:ParentID" json:"subcategories,omitempty"`
}

// MaxCategoryNameLength is the longest allowed category name.
const MaxCategoryNameLength = 60

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsMain reports whether the category is a root-level genre.
func (c *Category) IsMain() bool {
	return c.ParentID == nil
}
