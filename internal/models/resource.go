package models

import (
	"time"
)

// ResourceFile is an uploaded document attached to a unit. FilePath is the
// generated storage name inside the blob store and is immutable once set;
// Name is the user-facing display name.
type ResourceFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Type      string    `gorm:"size:50;not null;default:'pdf'" json:"type"`
	FilePath  string    `gorm:"size:500;not null" json:"file_path"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	Size      int64     `json:"size"`
	MimeType  string    `gorm:"size:100" json:"mime_type"`
	UnitID    uint      `gorm:"not null;index" json:"unit_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ResourceFile) TableName() string {
	return "resource_files"
}
