package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univault/univault-api/internal/config"
	"github.com/univault/univault-api/internal/services"
)

type RenameResourceRequest struct {
	Name string `json:"name" binding:"required"`
}

// UploadResource accepts a multipart upload and attaches it to a unit
// (admin/mod). Form fields: file, unitId, name (optional), type (optional).
func UploadResource(catalog *services.CatalogService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(cfg.MaxUploadSize); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "File too large",
				},
			})
			return
		}

		unitID, ok := parseID(c, c.PostForm("unitId"))
		if !ok {
			return
		}

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "No file uploaded",
				},
			})
			return
		}
		defer file.Close()

		resource, err := catalog.UploadResource(c.Request.Context(), unitID, file, header,
			c.PostForm("name"), c.PostForm("type"), callerID(c))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    resource,
		})
	}
}

// RenameResource updates the display name of a resource (admin/mod).
func RenameResource(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, c.Param("id"))
		if !ok {
			return
		}

		var req RenameResourceRequest
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

		resource, err := catalog.RenameResource(c.Request.Context(), id, req.Name)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    resource,
		})
	}
}

// DeleteResource removes a resource's blob and row (admin/mod).
func DeleteResource(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, c.Param("id"))
		if !ok {
			return
		}

		if err := catalog.DeleteResource(c.Request.Context(), id, callerID(c)); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Resource deleted successfully",
		})
	}
}

// ServeUpload streams a stored blob from the blob store so /uploads works
// the same for the local and MinIO backends.
func ServeUpload(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("filename")

		reader, size, contentType, err := catalog.OpenBlob(c.Request.Context(), name)
		if err != nil {
			respondError(c, err)
			return
		}
		defer reader.Close()

		extraHeaders := map[string]string{
			"Content-Disposition": fmt.Sprintf("inline; filename=%q", name),
		}
		c.DataFromReader(http.StatusOK, size, contentType, reader, extraHeaders)
	}
}
