package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/univault/univault-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCatalog(t *testing.T) (*CatalogService, *gorm.DB, string) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "catalog.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Semester{},
		&models.Subject{},
		&models.Unit{},
		&models.ResourceFile{},
		&models.Activity{},
	))

	blobDir := t.TempDir()
	blobs, err := NewLocalStore(blobDir)
	require.NoError(t, err)

	catalog := NewCatalogService(db, blobs, nil, nil, 50*1024*1024)
	return catalog, db, blobDir
}

func createSemester(t *testing.T, db *gorm.DB, number int) models.Semester {
	t.Helper()

	branch := models.Branch{Name: "Computer Science Engineering", Slug: fmt.Sprintf("cse-%d", number)}
	require.NoError(t, db.Create(&branch).Error)

	semester := models.Semester{Number: number, BranchID: branch.ID}
	require.NoError(t, db.Create(&semester).Error)
	return semester
}

// uploadFixture builds a real multipart file the way gin hands it to the
// service, with a PDF content type.
func uploadFixture(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	fh := form.File["file"][0]
	f, err := fh.Open()
	require.NoError(t, err)
	return f, fh
}

func TestCreateSubjectCreatesFourDefaultUnits(t *testing.T) {
	catalog, db, _ := setupCatalog(t)
	semester := createSemester(t, db, 3)

	subject, err := catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-301", semester.ID)
	require.NoError(t, err)
	require.Len(t, subject.Units, 4)
	for i, unit := range subject.Units {
		assert.Equal(t, i+1, unit.Number)
		assert.Equal(t, fmt.Sprintf("Unit %d", i+1), unit.Name)
	}

	var count int64
	require.NoError(t, db.Model(&models.Unit{}).Where("subject_id = ?", subject.ID).Count(&count).Error)
	assert.EqualValues(t, 4, count)
}

func TestCreateSubjectUnknownSemester(t *testing.T) {
	catalog, _, _ := setupCatalog(t)

	_, err := catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-301", 999)
	assert.True(t, IsValidation(err), "expected ValidationError, got %v", err)
}

func TestCreateSubjectDuplicateNameInSemester(t *testing.T) {
	catalog, db, _ := setupCatalog(t)
	semester := createSemester(t, db, 3)

	_, err := catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-301", semester.ID)
	require.NoError(t, err)

	_, err = catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-302", semester.ID)
	assert.True(t, IsConflict(err), "expected ConflictError, got %v", err)
}

func TestUpdateSubjectNotFound(t *testing.T) {
	catalog, _, _ := setupCatalog(t)

	name := "Renamed"
	_, err := catalog.UpdateSubject(context.Background(), 42, &name, nil)
	assert.True(t, IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestUploadPreservesDisplayName(t *testing.T) {
	catalog, db, blobDir := setupCatalog(t)
	semester := createSemester(t, db, 3)
	subject, err := catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-301", semester.ID)
	require.NoError(t, err)

	file, header := uploadFixture(t, "lecture-notes.pdf", "pdf bytes")
	defer file.Close()

	resource, err := catalog.UploadResource(context.Background(), subject.Units[0].ID, file, header, "Notes.pdf", "", 1)
	require.NoError(t, err)

	assert.Equal(t, "Notes.pdf", resource.Name)
	assert.NotEqual(t, "Notes.pdf", resource.FilePath)
	assert.NotEqual(t, "lecture-notes.pdf", resource.FilePath)
	assert.Equal(t, ".pdf", filepath.Ext(resource.FilePath))
	assert.Equal(t, PublicUploadPrefix+resource.FilePath, resource.URL)
	assert.Equal(t, "pdf", resource.Type)

	// Blob exists under the generated name
	_, err = os.Stat(filepath.Join(blobDir, resource.FilePath))
	assert.NoError(t, err)
}

func TestUploadUnknownUnit(t *testing.T) {
	catalog, _, _ := setupCatalog(t)

	file, header := uploadFixture(t, "notes.pdf", "pdf bytes")
	defer file.Close()

	_, err := catalog.UploadResource(context.Background(), 999, file, header, "", "", 1)
	assert.True(t, IsValidation(err), "expected ValidationError, got %v", err)
}

func TestUploadMissingFile(t *testing.T) {
	catalog, _, _ := setupCatalog(t)

	_, err := catalog.UploadResource(context.Background(), 1, nil, nil, "", "", 1)
	assert.True(t, IsValidation(err), "expected ValidationError, got %v", err)
}

func TestDeleteResourceRemovesBlobAndRow(t *testing.T) {
	catalog, db, blobDir := setupCatalog(t)
	semester := createSemester(t, db, 3)
	subject, err := catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-301", semester.ID)
	require.NoError(t, err)

	file, header := uploadFixture(t, "notes.pdf", "pdf bytes")
	defer file.Close()
	resource, err := catalog.UploadResource(context.Background(), subject.Units[0].ID, file, header, "", "", 1)
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteResource(context.Background(), resource.ID, 1))

	var count int64
	require.NoError(t, db.Model(&models.ResourceFile{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	_, err = os.Stat(filepath.Join(blobDir, resource.FilePath))
	assert.True(t, os.IsNotExist(err))

	// Second delete finds no row
	err = catalog.DeleteResource(context.Background(), resource.ID, 1)
	assert.True(t, IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestDeleteResourceWithBlobAlreadyAbsent(t *testing.T) {
	catalog, db, blobDir := setupCatalog(t)
	semester := createSemester(t, db, 3)
	subject, err := catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-301", semester.ID)
	require.NoError(t, err)

	file, header := uploadFixture(t, "notes.pdf", "pdf bytes")
	defer file.Close()
	resource, err := catalog.UploadResource(context.Background(), subject.Units[0].ID, file, header, "", "", 1)
	require.NoError(t, err)

	// Blob vanishes out of band; the delete must still succeed.
	require.NoError(t, os.Remove(filepath.Join(blobDir, resource.FilePath)))
	require.NoError(t, catalog.DeleteResource(context.Background(), resource.ID, 1))

	var count int64
	require.NoError(t, db.Model(&models.ResourceFile{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRenameResourceKeepsStoragePath(t *testing.T) {
	catalog, db, _ := setupCatalog(t)
	semester := createSemester(t, db, 3)
	subject, err := catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-301", semester.ID)
	require.NoError(t, err)

	file, header := uploadFixture(t, "notes.pdf", "pdf bytes")
	defer file.Close()
	resource, err := catalog.UploadResource(context.Background(), subject.Units[0].ID, file, header, "Old.pdf", "", 1)
	require.NoError(t, err)

	renamed, err := catalog.RenameResource(context.Background(), resource.ID, "New.pdf")
	require.NoError(t, err)
	assert.Equal(t, "New.pdf", renamed.Name)
	assert.Equal(t, resource.FilePath, renamed.FilePath)
	assert.Equal(t, resource.URL, renamed.URL)
}

func TestDeleteSubjectCascades(t *testing.T) {
	catalog, db, blobDir := setupCatalog(t)
	semester := createSemester(t, db, 3)
	subject, err := catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-301", semester.ID)
	require.NoError(t, err)

	var paths []string
	for i := 0; i < 2; i++ {
		file, header := uploadFixture(t, fmt.Sprintf("notes-%d.pdf", i), "pdf bytes")
		resource, err := catalog.UploadResource(context.Background(), subject.Units[i].ID, file, header, "", "", 1)
		file.Close()
		require.NoError(t, err)
		paths = append(paths, resource.FilePath)
	}

	result, err := catalog.DeleteSubject(context.Background(), subject.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, subject.ID, result.SubjectID)
	assert.Equal(t, 4, result.UnitsDeleted)
	assert.Equal(t, 2, result.FilesDeleted)
	assert.Equal(t, 2, result.BlobsRemoved)
	assert.Empty(t, result.BlobsFailed)

	var subjects, units, files int64
	require.NoError(t, db.Model(&models.Subject{}).Count(&subjects).Error)
	require.NoError(t, db.Model(&models.Unit{}).Count(&units).Error)
	require.NoError(t, db.Model(&models.ResourceFile{}).Count(&files).Error)
	assert.EqualValues(t, 0, subjects)
	assert.EqualValues(t, 0, units)
	assert.EqualValues(t, 0, files)

	for _, p := range paths {
		_, err := os.Stat(filepath.Join(blobDir, p))
		assert.True(t, os.IsNotExist(err), "blob %s should be gone", p)
	}

	_, err = catalog.GetSubject(context.Background(), subject.ID)
	assert.True(t, IsNotFound(err))
}

func TestDeleteSubjectToleratesMissingBlobs(t *testing.T) {
	catalog, db, blobDir := setupCatalog(t)
	semester := createSemester(t, db, 3)
	subject, err := catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-301", semester.ID)
	require.NoError(t, err)

	file, header := uploadFixture(t, "notes.pdf", "pdf bytes")
	defer file.Close()
	resource, err := catalog.UploadResource(context.Background(), subject.Units[0].ID, file, header, "", "", 1)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(blobDir, resource.FilePath)))

	result, err := catalog.DeleteSubject(context.Background(), subject.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesDeleted)
	assert.Equal(t, 1, result.BlobsRemoved) // absent counts as removed
	assert.Empty(t, result.BlobsFailed)
}

func TestDeleteSubjectNotFound(t *testing.T) {
	catalog, _, _ := setupCatalog(t)

	_, err := catalog.DeleteSubject(context.Background(), 4242, 1)
	assert.True(t, IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestListSubjectsEmptyIsNotAnError(t *testing.T) {
	catalog, db, _ := setupCatalog(t)
	semester := createSemester(t, db, 3)

	subjects, err := catalog.ListSubjects(context.Background(), semester.BranchID, semester.ID)
	require.NoError(t, err)
	assert.NotNil(t, subjects)
	assert.Empty(t, subjects)
}

func TestSemesterUniquePerBranchAndNumber(t *testing.T) {
	_, db, _ := setupCatalog(t)
	semester := createSemester(t, db, 5)

	dup := models.Semester{Number: semester.Number, BranchID: semester.BranchID}
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	require.NoError(t, db.Model(&models.Semester{}).
		Where("branch_id = ? AND number = ?", semester.BranchID, semester.Number).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListSubjectsScopedToBranchAndSemester(t *testing.T) {
	catalog, db, _ := setupCatalog(t)
	s3 := createSemester(t, db, 3)
	s4 := createSemester(t, db, 4)

	_, err := catalog.CreateSubject(context.Background(), "Operating Systems", "CSE-301", s3.ID)
	require.NoError(t, err)
	_, err = catalog.CreateSubject(context.Background(), "Computer Networks", "CSE-401", s4.ID)
	require.NoError(t, err)

	subjects, err := catalog.ListSubjects(context.Background(), s3.BranchID, s3.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Operating Systems", subjects[0].Name)
	assert.Len(t, subjects[0].Units, 4)
}
