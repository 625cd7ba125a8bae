package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doGet(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.7:5555"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitRejectsAfterBudget(t *testing.T) {
	policy := RateLimitPolicy{Name: "test", Max: 3, Window: time.Hour, Message: "slow down"}
	r := gin.New()
	r.Use(rateLimitHandler(NewRateLimiter(policy.Max, policy.Window), policy))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 3; i++ {
		if w := doGet(r, "/ping"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := doGet(r, "/ping")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" || w.Header().Get("X-RateLimit-Limit") != "3" {
		t.Fatalf("unexpected rate limit headers: %v", w.Header())
	}

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "slow down" || body.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestRateLimitSkipSuccessful(t *testing.T) {
	policy := RateLimitPolicy{Name: "auth-test", Max: 2, Window: time.Hour, Message: "too many", SkipSuccessful: true}
	r := gin.New()
	r.Use(rateLimitHandler(NewRateLimiter(policy.Max, policy.Window), policy))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })

	for i := 0; i < 5; i++ {
		if w := doGet(r, "/ok"); w.Code != http.StatusOK {
			t.Fatalf("successful request %d should not consume budget, got %d", i+1, w.Code)
		}
	}

	doGet(r, "/fail")
	doGet(r, "/fail")
	if w := doGet(r, "/fail"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected failures to exhaust budget, got %d", w.Code)
	}
}

func TestCleanupLimiters(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)
	rl.GetLimiter("a")
	rl.GetLimiter("b")
	rl.limiters["a"].lastSeen = time.Now().Add(-2 * time.Minute)

	rl.CleanupLimiters()
	if rl.Len() != 1 {
		t.Fatalf("expected one limiter left, got %d", rl.Len())
	}
}

func TestErrorHandler(t *testing.T) {
	for _, debug := range []bool{true, false} {
		r := gin.New()
		r.Use(ErrorHandler(debug))
		r.GET("/boom", func(c *gin.Context) {
			_ = c.Error(errors.New("disk on fire"))
		})

		w := doGet(r, "/boom")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		var body ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error != "Internal server error" {
			t.Fatalf("unexpected error message %q", body.Error)
		}
		if debug && body.Detail != "disk on fire" {
			t.Fatalf("expected detail in debug mode, got %q", body.Detail)
		}
		if !debug && body.Detail != "" {
			t.Fatalf("detail leaked outside debug mode: %q", body.Detail)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := doGet(r, "/")
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Strict-Transport-Security", "Permissions-Policy"} {
		if w.Header().Get(h) == "" {
			t.Errorf("missing header %s", h)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("0123456789abcdef")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestBearerToken(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "bearer abc.def")
	if got := bearerToken(c); got != "abc.def" {
		t.Fatalf("expected token, got %q", got)
	}
	c.Request.Header.Set("Authorization", "Basic xyz")
	if got := bearerToken(c); got != "" {
		t.Fatalf("expected empty token for basic auth, got %q", got)
	}
}
