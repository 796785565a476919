package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	syncdomain "github.com/foundrylabs/venturedash/internal/stripesync/domain"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
)

type fakeVentureService struct {
	createErr error
	keysErr   error
	lastSave  venturedomain.SaveStripeKeysRequest
}

func (f *fakeVentureService) Create(ctx context.Context, req venturedomain.CreateRequest) (*venturedomain.Response, error) {
	_ = ctx
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &venturedomain.Response{ID: "1", Slug: "acme", Name: req.Name, Status: "active"}, nil
}

func (f *fakeVentureService) List(ctx context.Context) ([]venturedomain.Response, error) {
	_ = ctx
	return []venturedomain.Response{{ID: "1", Slug: "acme", Name: "Acme"}}, nil
}

func (f *fakeVentureService) Get(ctx context.Context, id string) (*venturedomain.Response, error) {
	_ = ctx
	if id != "1" {
		return nil, venturedomain.ErrNotFound
	}
	return &venturedomain.Response{ID: "1", Slug: "acme", Name: "Acme"}, nil
}

func (f *fakeVentureService) GetBySlug(ctx context.Context, slug string) (*venturedomain.Venture, error) {
	_ = ctx
	_ = slug
	return nil, venturedomain.ErrNotFound
}

func (f *fakeVentureService) Update(ctx context.Context, req venturedomain.UpdateRequest) (*venturedomain.Response, error) {
	_ = ctx
	_ = req
	return &venturedomain.Response{ID: "1", Slug: "acme", Name: "Acme"}, nil
}

func (f *fakeVentureService) SaveStripeKeys(ctx context.Context, req venturedomain.SaveStripeKeysRequest) (*venturedomain.Response, error) {
	_ = ctx
	f.lastSave = req
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	return &venturedomain.Response{ID: req.ID, Slug: "acme", StripeKeySet: true}, nil
}

func (f *fakeVentureService) ClearStripeKeys(ctx context.Context, id string) (*venturedomain.Response, error) {
	_ = ctx
	return &venturedomain.Response{ID: id, Slug: "acme"}, nil
}

func (f *fakeVentureService) Credentials(ctx context.Context, id string) (venturedomain.Credentials, error) {
	_ = ctx
	_ = id
	return venturedomain.Credentials{}, nil
}

func (f *fakeVentureService) RecordSyncResult(ctx context.Context, id string, syncErr error) error {
	_ = ctx
	_ = id
	_ = syncErr
	return nil
}

type fakeSyncService struct {
	err error
}

func (f *fakeSyncService) SyncVenture(ctx context.Context, ventureID string) (*syncdomain.Summary, error) {
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	return &syncdomain.Summary{VentureID: ventureID, VentureSlug: "acme", Plans: 2}, nil
}

func (f *fakeSyncService) SyncAll(ctx context.Context) ([]syncdomain.Summary, error) {
	_ = ctx
	return []syncdomain.Summary{{VentureID: "1", VentureSlug: "acme"}}, nil
}

func ventureRouter(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/admin/ventures", srv.handleListVentures)
	router.POST("/admin/ventures", srv.handleCreateVenture)
	router.GET("/admin/ventures/:id", srv.handleGetVenture)
	router.PUT("/admin/ventures/:id/stripe/keys", srv.handleSaveStripeKeys)
	router.POST("/admin/ventures/:id/stripe/sync", srv.handleSyncVenture)
	return router
}

func TestCreateVentureReturnsCreated(t *testing.T) {
	srv := &Server{ventureSvc: &fakeVentureService{}}
	router := ventureRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/admin/ventures", bytes.NewBufferString(`{"name":"Acme Analytics"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateVentureMapsSlugConflict(t *testing.T) {
	srv := &Server{ventureSvc: &fakeVentureService{createErr: venturedomain.ErrSlugTaken}}
	router := ventureRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/admin/ventures", bytes.NewBufferString(`{"name":"Acme"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestCreateVentureMapsInvalidName(t *testing.T) {
	srv := &Server{ventureSvc: &fakeVentureService{createErr: venturedomain.ErrInvalidName}}
	router := ventureRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/admin/ventures", bytes.NewBufferString(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if body.Error.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Type)
	}
}

func TestGetVentureMapsNotFound(t *testing.T) {
	srv := &Server{ventureSvc: &fakeVentureService{}}
	router := ventureRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/admin/ventures/999", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestSaveStripeKeysBindsPathID(t *testing.T) {
	ventureSvc := &fakeVentureService{}
	srv := &Server{ventureSvc: ventureSvc}
	router := ventureRouter(srv)

	req := httptest.NewRequest(http.MethodPut, "/admin/ventures/1/stripe/keys", bytes.NewBufferString(`{"stripe_secret_key":"sk_test_abc123","stripe_webhook_secret":"whsec_abc"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ventureSvc.lastSave.ID != "1" {
		t.Fatalf("expected path id to bind, got %q", ventureSvc.lastSave.ID)
	}
	if ventureSvc.lastSave.SecretKey != "sk_test_abc123" {
		t.Fatalf("expected secret key to bind, got %q", ventureSvc.lastSave.SecretKey)
	}
}

func TestSyncVentureMapsMissingKeyToUnauthorized(t *testing.T) {
	srv := &Server{
		ventureSvc: &fakeVentureService{},
		syncSvc:    &fakeSyncService{err: syncdomain.ErrNoSecretKey},
	}
	router := ventureRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/admin/ventures/1/stripe/sync", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestSyncVentureReturnsSummary(t *testing.T) {
	srv := &Server{
		ventureSvc: &fakeVentureService{},
		syncSvc:    &fakeSyncService{},
	}
	router := ventureRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/admin/ventures/1/stripe/sync", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var summary syncdomain.Summary
	if err := json.Unmarshal(resp.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.VentureSlug != "acme" || summary.Plans != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
