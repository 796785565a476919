package server

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const operatorSubject = "operator"

// AuthRequired guards the admin surface with the operator's bearer token.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims := jwt.RegisteredClaims{}
		parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(s.cfg.AuthJWTSecret), nil
		})
		if err != nil || !parsed.Valid || claims.Subject != operatorSubject {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Next()
	}
}

// TrackingKeyRequired guards the public ingestion endpoint with the shared
// static key that venture sites embed.
func (s *Server) TrackingKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.TrackingAPIKey == "" {
			AbortWithError(c, ErrForbidden)
			return
		}
		key := strings.TrimSpace(c.GetHeader("X-Tracking-Key"))
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.TrackingAPIKey)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// TrackingRateLimit consumes one token per event, keyed by venture slug so a
// noisy site cannot starve the others. Runs open when redis is absent.
func (s *Server) TrackingRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		key := ventureKey(c)
		cfg := s.portfolioCfg.Current()
		rate := float64(cfg.TrackingRatePerMinute) / 60

		result, err := s.limiter.Allow(c.Request.Context(), "tracking:"+key, rate, cfg.TrackingBurst)
		if err != nil {
			s.log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !result.Allowed {
			retry := result.RetryAfter
			if retry <= 0 {
				retry = time.Second
			}
			c.Header("Retry-After", fmt.Sprintf("%d", int(retry.Seconds())+1))
			AbortWithError(c, ErrTooManyEvents)
			return
		}
		c.Next()
	}
}

// ventureKey pulls the venture slug out of the JSON body, restoring the body
// for the handler's own bind. Falls back to the query param, then the client
// IP for payloads that name no venture.
func ventureKey(c *gin.Context) string {
	if c.Request.Body != nil {
		body, err := io.ReadAll(c.Request.Body)
		if err == nil {
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			var peek struct {
				Venture string `json:"venture"`
			}
			if json.Unmarshal(body, &peek) == nil {
				if v := strings.TrimSpace(peek.Venture); v != "" {
					return v
				}
			}
		}
	}
	if v := strings.TrimSpace(c.Query("venture")); v != "" {
		return v
	}
	return c.ClientIP()
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
