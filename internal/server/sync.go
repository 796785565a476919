package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	syncdomain "github.com/foundrylabs/venturedash/internal/stripesync/domain"
)

type syncResponse struct {
	Success bool `json:"success"`
	syncdomain.Summary
}

func (s *Server) handleSyncVenture(c *gin.Context) {
	summary, err := s.syncSvc.SyncVenture(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, syncResponse{Success: summary.Error == "", Summary: *summary})
}

func (s *Server) handleSyncAll(c *gin.Context) {
	summaries, err := s.syncSvc.SyncAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": summaries})
}
