package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/liwu-next/internal/config"
	"github.com/liwu-next/internal/models"
	"github.com/liwu-next/internal/repository"
	"github.com/liwu-next/internal/service"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if w2.Header().Get(requestIDHeader) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func assertEnvelopeCode(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var envelope struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope failed: %v", err)
	}
	if envelope.StatusCode != want {
		t.Fatalf("envelope status_code want %d got %d body=%s", want, envelope.StatusCode, w.Body.String())
	}
}

func setupAuthMiddlewareTest(t *testing.T) (*service.AuthService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Sender{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "router-test-secret-0123456789abcdef0123456789"
	cfg.JWT.ExpireHours = 1
	cfg.Security.PasswordPolicy.MinLength = 8
	return service.NewAuthService(cfg, repository.NewGormSenderRepository(db)), db
}

func TestSenderJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authSvc, _ := setupAuthMiddlewareTest(t)

	r := gin.New()
	r.Use(SenderJWTAuthMiddleware(authSvc))
	r.GET("/me", func(c *gin.Context) {
		id, _ := c.Get("sender_id")
		c.JSON(http.StatusOK, gin.H{"sender_id": id})
	})

	// 缺少认证头
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assertEnvelopeCode(t, w, 401)

	// 格式错误
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	assertEnvelopeCode(t, w, 401)

	// 伪造令牌
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer forged.token.value")
	r.ServeHTTP(w, req)
	assertEnvelopeCode(t, w, 401)

	// 真实令牌
	sender, token, _, err := authSvc.Register("mw@example.com", "Secret1234", "", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]uint
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["sender_id"] != sender.ID {
		t.Fatalf("sender id want %d got %d", sender.ID, resp["sender_id"])
	}
}
