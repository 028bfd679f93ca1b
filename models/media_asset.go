package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaAsset is a catalog entry tagged against the category hierarchy.
// Genre and Item are write-time snapshots of the main and sub-category names;
// renaming a category later does not rewrite existing assets.
type MediaAsset struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Genre      string     `gorm:"not null" json:"genre"`
	Item       string     `gorm:"not null" json:"item"`
	Subject    string     `gorm:"not null;index" json:"subject"`
	// Duration keeps the original "mm:ss" (or "h:mm:ss") text; DurationSeconds
	// is derived on save so range filters compare numerically instead of
	// lexicographically.
	Duration        string         `gorm:"not null" json:"duration"`
	DurationSeconds int            `gorm:"index" json:"-"`
	CreationDate    time.Time      `gorm:"not null;index" json:"creation_date"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *MediaAsset) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreationDate.IsZero() {
		m.CreationDate = time.Now()
	}
	return nil
}

func (m *MediaAsset) BeforeSave(tx *gorm.DB) error {
	if m.Duration != "" {
		if secs, err := ParseClockDuration(m.Duration); err == nil {
			m.DurationSeconds = secs
		}
	}
	return nil
}

// ParseClockDuration converts a colon-separated duration ("mm:ss" or
// "h:mm:ss") to total seconds. Minutes may exceed 59 in the two-part form.
func ParseClockDuration(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q: expected mm:ss or h:mm:ss", s)
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q: non-numeric segment %q", s, part)
		}
		total = total*60 + n
	}
	return total, nil
}
