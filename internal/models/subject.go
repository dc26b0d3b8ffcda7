package models

import (
	"time"
)

// DefaultUnitCount is the fixed number of units created with every subject.
const DefaultUnitCount = 4

type Subject struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:200;not null;uniqueIndex:idx_semester_name" json:"name"`
	Code       string    `gorm:"size:20" json:"code"`
	SemesterID uint      `gorm:"not null;uniqueIndex:idx_semester_name" json:"semester_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Semester Semester `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
	Units    []Unit   `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"units,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}

type Unit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    int       `gorm:"not null;check:number >= 1 AND number <= 4" json:"number"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	SubjectID uint      `gorm:"not null;index" json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Files []ResourceFile `gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
}

func (Unit) TableName() string {
	return "units"
}
