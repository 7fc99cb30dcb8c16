package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // required for pq.StringArray
	"gorm.io/gorm"
)

// User is an athlete or coach profile, reduced to what the relay needs:
// identity, last known coordinates and the push target for offline delivery.
type User struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	Email          string         `gorm:"uniqueIndex" json:"email"`
	Name           string         `json:"name"`
	ProfileImage   string         `json:"profileImage,omitempty"`
	Disciplines    pq.StringArray `gorm:"type:text[]" json:"disciplines,omitempty"`
	Latitude       *float64       `json:"latitude,omitempty"`
	Longitude      *float64       `json:"longitude,omitempty"`
	TelegramChatID int64          `gorm:"index" json:"-"` // 0 means no push target linked
}

// BeforeCreate is a GORM hook that assigns a UUID when the ID is not set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// NearbyUser is the trimmed projection returned by the `near` query.
type NearbyUser struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
