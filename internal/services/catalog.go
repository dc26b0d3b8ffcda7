package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/univault/univault-api/internal/models"
	"github.com/univault/univault-api/internal/utils"
	"gorm.io/gorm"
)

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true, // docx
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true, // pptx
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true, // xlsx
	"application/vnd.ms-excel": true,
	"image/jpeg":               true,
	"image/png":                true,
	"text/plain":               true,
	"text/csv":                 true,
}

// CatalogService mediates all reads and writes to the
// branch/semester/subject/unit/file hierarchy and keeps the database and the
// blob store consistent across deletes. Search and activity are optional
// collaborators; the catalog works without them.
type CatalogService struct {
	db       *gorm.DB
	blobs    BlobStore
	search   *SearchService
	activity *ActivityService
	maxSize  int64
}

func NewCatalogService(db *gorm.DB, blobs BlobStore, search *SearchService, activity *ActivityService, maxUploadSize int64) *CatalogService {
	return &CatalogService{
		db:       db,
		blobs:    blobs,
		search:   search,
		activity: activity,
		maxSize:  maxUploadSize,
	}
}

// CascadeResult reports what a subject delete actually did. Blob removal is
// best effort, so partial failures are carried here instead of being thrown
// away.
type CascadeResult struct {
	SubjectID    uint     `json:"subject_id"`
	UnitsDeleted int      `json:"units_deleted"`
	FilesDeleted int      `json:"files_deleted"`
	BlobsRemoved int      `json:"blobs_removed"`
	BlobsFailed  []string `json:"blobs_failed,omitempty"`
}

// ListBranches returns all branches with their semesters ordered by number.
func (s *CatalogService) ListBranches(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	err := s.db.WithContext(ctx).
		Preload("Semesters", func(db *gorm.DB) *gorm.DB {
			return db.Order("semesters.number asc")
		}).
		Order("name asc").
		Find(&branches).Error
	return branches, err
}

// ListSubjects returns the subjects of one (branch, semester) pair with
// nested units and files. No match yields an empty slice, not an error.
func (s *CatalogService) ListSubjects(ctx context.Context, branchID, semesterID uint) ([]models.Subject, error) {
	subjects := []models.Subject{}
	err := s.db.WithContext(ctx).
		Select("subjects.*").
		Joins("JOIN semesters ON semesters.id = subjects.semester_id").
		Where("semesters.branch_id = ? AND semesters.id = ?", branchID, semesterID).
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("units.number asc")
		}).
		Preload("Units.Files").
		Find(&subjects).Error
	return subjects, err
}

// GetSubject returns one subject with units and files.
func (s *CatalogService) GetSubject(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	err := s.db.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("units.number asc")
		}).
		Preload("Units.Files").
		First(&subject, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Subject"}
		}
		return nil, err
	}
	return &subject, nil
}

// CreateSubject creates a subject together with its four default units in a
// single transaction.
func (s *CatalogService) CreateSubject(ctx context.Context, name, code string, semesterID uint) (*models.Subject, error) {
	var semester models.Semester
	if err := s.db.WithContext(ctx).First(&semester, "id = ?", semesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErrorf("semester %d does not exist", semesterID)
		}
		return nil, err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Subject{}).
		Where("semester_id = ? AND name = ?", semesterID, name).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, &ConflictError{Message: "subject already exists for this semester"}
	}

	subject := models.Subject{
		Name:       name,
		Code:       code,
		SemesterID: semesterID,
	}
	for i := 1; i <= models.DefaultUnitCount; i++ {
		subject.Units = append(subject.Units, models.Unit{
			Number: i,
			Name:   fmt.Sprintf("Unit %d", i),
		})
	}

	if err := s.db.WithContext(ctx).Create(&subject).Error; err != nil {
		// A concurrent create can slip past the count above; the unique
		// index still catches it.
		return nil, conflictIfDuplicate(err, "subject already exists for this semester")
	}

	if s.search != nil {
		go s.search.IndexSubject(subject)
	}
	return &subject, nil
}

// UpdateSubject renames a subject and/or changes its code.
func (s *CatalogService) UpdateSubject(ctx context.Context, id uint, name, code *string) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.WithContext(ctx).First(&subject, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Subject"}
		}
		return nil, err
	}

	if name != nil {
		subject.Name = *name
	}
	if code != nil {
		subject.Code = *code
	}

	if err := s.db.WithContext(ctx).Save(&subject).Error; err != nil {
		return nil, err
	}

	if s.search != nil {
		go s.search.IndexSubject(subject)
	}
	return &subject, nil
}

// DeleteSubject removes a subject and everything below it. Two phases:
// first every descendant blob is removed from the blob store (absent blobs
// count as removed, other failures are collected and do not abort), then the
// subject row is deleted and the database cascade takes the unit and file
// rows with it. There is no transaction spanning both stores; an orphaned
// blob is preferred over a row pointing at a blob that is already gone.
func (s *CatalogService) DeleteSubject(ctx context.Context, id uint, actorID uint) (*CascadeResult, error) {
	var subject models.Subject
	err := s.db.WithContext(ctx).
		Preload("Units").
		Preload("Units.Files").
		First(&subject, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Subject"}
		}
		return nil, err
	}

	result := &CascadeResult{SubjectID: subject.ID, UnitsDeleted: len(subject.Units)}
	for _, unit := range subject.Units {
		result.FilesDeleted += len(unit.Files)
		for _, file := range unit.Files {
			if err := s.blobs.Remove(ctx, file.FilePath); err != nil {
				log.Printf("Failed to remove blob %s: %v", file.FilePath, err)
				result.BlobsFailed = append(result.BlobsFailed, file.FilePath)
				continue
			}
			result.BlobsRemoved++
		}
	}

	if err := s.db.WithContext(ctx).Delete(&models.Subject{}, "id = ?", subject.ID).Error; err != nil {
		return nil, err
	}

	if s.search != nil {
		go func() {
			s.search.DeleteSubject(subject.ID)
			for _, unit := range subject.Units {
				for _, file := range unit.Files {
					s.search.DeleteResource(file.ID)
				}
			}
		}()
	}
	if s.activity != nil {
		// The subject row is gone, so the activity keeps no foreign key to
		// it; the identifying details travel in the metadata instead.
		go s.activity.Record(actorID, models.ActivitySubjectDeleted, nil, nil, map[string]interface{}{
			"subject_id":    subject.ID,
			"subject_name":  subject.Name,
			"files_deleted": result.FilesDeleted,
		})
	}
	return result, nil
}

// UploadResource stores an uploaded file and inserts the referencing row.
// The blob is written first; if the row insert fails the blob is cleaned up.
func (s *CatalogService) UploadResource(ctx context.Context, unitID uint, file multipart.File, header *multipart.FileHeader, displayName, resourceType string, actorID uint) (*models.ResourceFile, error) {
	if file == nil || header == nil {
		return nil, validationErrorf("no file uploaded")
	}
	if header.Size > s.maxSize {
		return nil, validationErrorf("file exceeds %d MB limit", s.maxSize/(1024*1024))
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType != "" && !allowedMimeTypes[mimeType] {
		return nil, validationErrorf("unsupported file type %q", mimeType)
	}

	var unit models.Unit
	if err := s.db.WithContext(ctx).First(&unit, "id = ?", unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErrorf("unit %d does not exist", unitID)
		}
		return nil, err
	}

	if displayName == "" {
		displayName = header.Filename
	}
	if resourceType == "" {
		resourceType = "pdf"
	}

	storageName := utils.StorageName(header.Filename)
	if err := s.blobs.Save(ctx, storageName, file, header.Size, mimeType); err != nil {
		return nil, err
	}

	resource := models.ResourceFile{
		Name:     displayName,
		Type:     resourceType,
		FilePath: storageName,
		URL:      s.blobs.URL(storageName),
		Size:     header.Size,
		MimeType: mimeType,
		UnitID:   unit.ID,
	}
	if err := s.db.WithContext(ctx).Create(&resource).Error; err != nil {
		// Row insert failed; do not leave the blob behind.
		if rmErr := s.blobs.Remove(ctx, storageName); rmErr != nil {
			log.Printf("Failed to clean up blob %s: %v", storageName, rmErr)
		}
		return nil, err
	}

	if s.search != nil {
		go s.search.IndexResource(resource, unit.SubjectID)
	}
	if s.activity != nil {
		go s.activity.Record(actorID, models.ActivityResourceUploaded, &unit.SubjectID, &resource.ID, nil)
	}
	return &resource, nil
}

// RenameResource updates the display name only; the storage name is
// immutable once set.
func (s *CatalogService) RenameResource(ctx context.Context, id uint, name string) (*models.ResourceFile, error) {
	var resource models.ResourceFile
	if err := s.db.WithContext(ctx).First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Resource"}
		}
		return nil, err
	}

	resource.Name = name
	if err := s.db.WithContext(ctx).Save(&resource).Error; err != nil {
		return nil, err
	}

	if s.search != nil {
		var unit models.Unit
		if err := s.db.WithContext(ctx).First(&unit, "id = ?", resource.UnitID).Error; err == nil {
			go s.search.IndexResource(resource, unit.SubjectID)
		}
	}
	return &resource, nil
}

// DeleteResource is the inverse of upload: remove the blob (idempotent, best
// effort), then delete the row.
func (s *CatalogService) DeleteResource(ctx context.Context, id uint, actorID uint) error {
	var resource models.ResourceFile
	if err := s.db.WithContext(ctx).First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "Resource"}
		}
		return err
	}

	if err := s.blobs.Remove(ctx, resource.FilePath); err != nil {
		// Same policy as the subject cascade: keep going, an orphaned
		// blob beats a row pointing nowhere.
		log.Printf("Failed to remove blob %s: %v", resource.FilePath, err)
	}

	if err := s.db.WithContext(ctx).Delete(&models.ResourceFile{}, "id = ?", resource.ID).Error; err != nil {
		return err
	}

	if s.search != nil {
		go s.search.DeleteResource(resource.ID)
	}
	if s.activity != nil {
		var unit models.Unit
		subjectID := (*uint)(nil)
		if err := s.db.WithContext(ctx).First(&unit, "id = ?", resource.UnitID).Error; err == nil {
			subjectID = &unit.SubjectID
		}
		go s.activity.Record(actorID, models.ActivityResourceDeleted, subjectID, &resource.ID, nil)
	}
	return nil
}

// OpenBlob streams a stored blob for the public /uploads path.
func (s *CatalogService) OpenBlob(ctx context.Context, name string) (io.ReadCloser, int64, string, error) {
	return s.blobs.Open(ctx, name)
}
