package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// webhookBodyLimit bounds Stripe deliveries; their documented maximum is far
// below this.
const webhookBodyLimit = 1 << 20

// handleStripeWebhook receives one delivery. The venture is addressed with a
// query parameter because Stripe offers no custom headers; each venture's
// endpoint URL is configured as /api/stripe/webhook?venture=<slug>.
func (s *Server) handleStripeWebhook(c *gin.Context) {
	slug := strings.TrimSpace(c.Query("venture"))
	if slug == "" {
		AbortWithError(c, newValidationError("venture", "venture_required", "venture query parameter is required"))
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookBodyLimit))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.webhookSvc.Process(
		c.Request.Context(),
		slug,
		payload,
		c.GetHeader("Stripe-Signature"),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"received":   true,
		"event_type": result.EventType,
		"handled":    result.Handled,
		"duplicate":  result.Duplicate,
	})
}
