package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/config"
)

func newAuthTestServer(t *testing.T) *Server {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	return &Server{
		cfg: config.Config{
			AdminPasswordHash: string(hash),
			AuthJWTSecret:     "test-signing-secret",
			SessionTTL:        time.Hour,
		},
		clock: clock.NewSystemClock(),
	}
}

func authRouter(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.handleLogin)
	router.GET("/auth/me", srv.AuthRequired(), srv.handleMe)
	return router
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	srv := newAuthTestServer(t)
	router := authRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestLoginRefusesWhenOperatorUnconfigured(t *testing.T) {
	srv := newAuthTestServer(t)
	srv.cfg.AdminPasswordHash = ""
	router := authRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestLoginIssuesTokenAcceptedByAuthRequired(t *testing.T) {
	srv := newAuthTestServer(t)
	router := authRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body loginResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if body.Token == "" {
		t.Fatal("expected a session token")
	}

	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.Header.Set("Authorization", "Bearer "+body.Token)
	meResp := httptest.NewRecorder()
	router.ServeHTTP(meResp, me)

	if meResp.Code != http.StatusOK {
		t.Fatalf("expected status 200 from /auth/me, got %d", meResp.Code)
	}
}

func TestAuthRequiredRejectsMissingAndGarbageTokens(t *testing.T) {
	srv := newAuthTestServer(t)
	router := authRouter(srv)

	for _, header := range []string{"", "Bearer not-a-jwt", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected status 401, got %d", header, resp.Code)
		}
	}
}
