package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univault/univault-api/internal/services"
)

// Search queries the subject and resource indexes in one call. subjectId
// narrows the resource hits to one subject, semesterId narrows the subject
// hits to one semester.
func Search(search *services.SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if search == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SEARCH_UNAVAILABLE",
					"message": "Search is not configured",
				},
			})
			return
		}

		query := c.Query("q")

		subjects, err := search.SearchSubjects(query, c.Query("semesterId"))
		if err != nil {
			respondError(c, err)
			return
		}

		resources, err := search.SearchResources(query, c.Query("subjectId"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"subjects":  subjects.Hits,
				"resources": resources.Hits,
			},
		})
	}
}
