package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const activityPageLimit = 50

func (s *Server) handleVentureMetrics(c *gin.Context) {
	metrics, err := s.dashboardSvc.VentureMetrics(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// handleStripeStatus classifies the integration against live Stripe state, so
// the operator sees setup problems without waiting for a sync.
func (s *Server) handleStripeStatus(c *gin.Context) {
	metrics, err := s.dashboardSvc.VentureMetrics(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics.Status)
}

func (s *Server) handleVentureActivity(c *gin.Context) {
	venture, err := s.ventureSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	ventureID, err := strconv.ParseInt(venture.ID, 10, 64)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	limit := activityPageLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, parseErr := strconv.Atoi(raw); parseErr == nil && parsed > 0 && parsed <= activityPageLimit {
			limit = parsed
		}
	}

	events, err := s.activitySvc.Recent(c.Request.Context(), ventureID, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (s *Server) handlePortfolio(c *gin.Context) {
	overview, err := s.portfolioSvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
