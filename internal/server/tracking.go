package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	trackingdomain "github.com/foundrylabs/venturedash/internal/tracking/domain"
)

type trackRequest struct {
	Venture string `json:"venture"`
	trackingdomain.Request
}

func (s *Server) handleTrack(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Venture == "" {
		AbortWithError(c, newValidationError("venture", "venture_required", "venture is required"))
		return
	}

	result, err := s.trackingSvc.Ingest(c.Request.Context(), req.Venture, req.Request)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"event":   req.Type,
		"result":  result,
	})
}
