package models

import (
	"time"
)

type Branch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Slug      string    `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Semesters []Semester `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE" json:"semesters,omitempty"`
}

func (Branch) TableName() string {
	return "branches"
}

type Semester struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    int       `gorm:"not null;uniqueIndex:idx_branch_number;check:number >= 1 AND number <= 8" json:"number"`
	BranchID  uint      `gorm:"not null;uniqueIndex:idx_branch_number" json:"branch_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Branch   Branch    `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Subjects []Subject `gorm:"foreignKey:SemesterID;constraint:OnDelete:CASCADE" json:"subjects,omitempty"`
}

func (Semester) TableName() string {
	return "semesters"
}
