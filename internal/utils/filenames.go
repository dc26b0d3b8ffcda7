package utils

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// StorageName derives a collision-resistant blob name for an uploaded file:
// upload timestamp plus a random suffix, keeping the original extension so
// content-type detection by extension keeps working. The user-facing display
// name is stored separately and never reaches the filesystem.
func StorageName(originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String(), ext)
}
