package models

import "time"

// Bird is a single exhibition entry. It belongs to exactly one category and
// one owner and is never mutated after upload.
type Bird struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Thumbnail   string    `json:"thumbnail"`
	OwnerID     int       `gorm:"index;not null" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"owner"`
	CategoryID  int       `gorm:"index;not null" json:"category_id"`
	SubmittedAt time.Time `gorm:"autoCreateTime" json:"submitted_at"`
}
