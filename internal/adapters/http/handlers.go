package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classwave/live/internal/app"
)

// listSessions exposes the read-only live-session snapshot.
func listSessions(query *app.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"sessions": query.ListActive(),
		})
	}
}
