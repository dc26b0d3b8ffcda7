package models

import (
	"time"
)

type ActivityType string

const (
	ActivityResourceUploaded ActivityType = "resource_uploaded"
	ActivityResourceDeleted  ActivityType = "resource_deleted"
	ActivitySubjectDeleted   ActivityType = "subject_deleted"
)

type Activity struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;index" json:"user_id"`
	ActivityType ActivityType `gorm:"type:varchar(50);not null;index" json:"activity_type"`
	SubjectID    *uint        `gorm:"index" json:"subject_id,omitempty"`
	ResourceID   *uint        `gorm:"index" json:"resource_id,omitempty"`
	Metadata     string       `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`

	// Relations. The subject link is nulled when the subject is deleted so
	// the activity history outlives the catalog entries it refers to.
	User    User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:SET NULL" json:"subject,omitempty"`
}

func (Activity) TableName() string {
	return "activities"
}
