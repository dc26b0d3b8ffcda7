package services

import (
	"encoding/json"

	"github.com/univault/univault-api/internal/models"
	"gorm.io/gorm"
)

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{
		db: db,
	}
}

func (s *ActivityService) Record(userID uint, activityType models.ActivityType, subjectID, resourceID *uint, metadata map[string]interface{}) error {
	metadataJSON := "{}"
	if len(metadata) > 0 {
		bytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(bytes)
		}
	}

	activity := models.Activity{
		UserID:       userID,
		ActivityType: activityType,
		SubjectID:    subjectID,
		ResourceID:   resourceID,
		Metadata:     metadataJSON,
	}

	return s.db.Create(&activity).Error
}

func (s *ActivityService) Recent(limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := s.db.Preload("User").
		Preload("Subject").
		Order("created_at desc").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
