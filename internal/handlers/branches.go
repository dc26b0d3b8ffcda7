package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univault/univault-api/internal/services"
)

// ListBranches returns all branches with their semesters.
func ListBranches(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		branches, err := catalog.ListBranches(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    branches,
		})
	}
}
