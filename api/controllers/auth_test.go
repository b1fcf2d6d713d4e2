package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/timerapp/timerapp-backend/api/middleware"
	"github.com/timerapp/timerapp-backend/internal/auth"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
)

type stubAuthService struct {
	resp      *auth.LoginResponse
	err       error
	loginReq  auth.DevLoginRequest
	revokedID string
}

func (s *stubAuthService) DevLogin(ctx context.Context, req auth.DevLoginRequest) (*auth.LoginResponse, error) {
	s.loginReq = req
	return s.resp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.revokedID = accessID
	return s.err
}

func TestAuthDevLoginSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubAuthService{resp: &auth.LoginResponse{
		UserID:      userID,
		AccessToken: "token",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour).UTC(),
		Created:     true,
	}}

	req := newRequest(http.MethodPost, "/api/v1/auth/dev", `{"email":"a@example.com","username":"ana"}`, uuid.Nil)
	rec := httptest.NewRecorder()
	AuthDevLogin(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Timerapp-Token") != "token" {
		t.Fatalf("expected token header")
	}
	if svc.loginReq.Email != "a@example.com" || svc.loginReq.Username != "ana" {
		t.Fatalf("unexpected request %+v", svc.loginReq)
	}

	var body auth.LoginResponse
	decodeData(t, rec, &body)
	if body.UserID != userID || body.AccessToken != "token" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestAuthDevLoginRejectsInvalidEmail(t *testing.T) {
	svc := &stubAuthService{}
	req := newRequest(http.MethodPost, "/api/v1/auth/dev", `{"email":"nope"}`, uuid.Nil)
	rec := httptest.NewRecorder()
	AuthDevLogin(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthDevLoginRejectsUnknownFields(t *testing.T) {
	req := newRequest(http.MethodPost, "/api/v1/auth/dev", `{"password":"x"}`, uuid.Nil)
	rec := httptest.NewRecorder()
	AuthDevLogin(&stubAuthService{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLogoutRevokesContextSession(t *testing.T) {
	svc := &stubAuthService{}
	req := newRequest(http.MethodPost, "/api/v1/auth/logout", "", uuid.New())
	req = req.WithContext(middleware.WithAccessID(req.Context(), "access-1"))
	rec := httptest.NewRecorder()
	AuthLogout(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.revokedID != "access-1" {
		t.Fatalf("expected access-1 revoked, got %q", svc.revokedID)
	}
}

func TestAuthLogoutSurfacesUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")}
	req := newRequest(http.MethodPost, "/api/v1/auth/logout", "", uuid.Nil)
	rec := httptest.NewRecorder()
	AuthLogout(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
