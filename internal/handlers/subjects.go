package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univault/univault-api/internal/services"
)

// Request/Response types
type CreateSubjectRequest struct {
	Name       string `json:"name" binding:"required"`
	Code       string `json:"code"`
	SemesterID string `json:"semester_id" binding:"required"`
}

type UpdateSubjectRequest struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

// ListSubjects returns the subjects of a (branch, semester) pair with nested
// units and files. Both query parameters are required numeric ids.
func ListSubjects(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		branchID, ok := parseID(c, c.Query("branchId"))
		if !ok {
			return
		}
		semesterID, ok := parseID(c, c.Query("semesterId"))
		if !ok {
			return
		}

		subjects, err := catalog.ListSubjects(c.Request.Context(), branchID, semesterID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    subjects,
		})
	}
}

// GetSubject returns a single subject with its units and files.
func GetSubject(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, c.Param("id"))
		if !ok {
			return
		}

		subject, err := catalog.GetSubject(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    subject,
		})
	}
}

// CreateSubject creates a subject plus its four default units (admin/mod).
func CreateSubject(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSubjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}

		semesterID, ok := parseID(c, req.SemesterID)
		if !ok {
			return
		}

		subject, err := catalog.CreateSubject(c.Request.Context(), req.Name, req.Code, semesterID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    subject,
		})
	}
}

// UpdateSubject renames a subject and/or changes its code (admin/mod).
func UpdateSubject(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, c.Param("id"))
		if !ok {
			return
		}

		var req UpdateSubjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}

		subject, err := catalog.UpdateSubject(c.Request.Context(), id, req.Name, req.Code)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    subject,
		})
	}
}

// DeleteSubject removes a subject and all descendant units, files and blobs
// (admin/mod). The response carries the cascade result.
func DeleteSubject(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, c.Param("id"))
		if !ok {
			return
		}

		result, err := catalog.DeleteSubject(c.Request.Context(), id, callerID(c))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Subject deleted successfully",
			"data":    result,
		})
	}
}
