package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jansamadhan/backend/internal/auth"
)

type stubTokens map[string]auth.Principal

func (s stubTokens) Parse(token string) (auth.Principal, error) {
	p, ok := s[token]
	if !ok {
		return auth.Principal{}, errors.New("bad token")
	}
	return p, nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := stubTokens{
		"citizen": {UserID: "u1", Role: "citizen"},
		"admin":   {UserID: "a1", Role: "admin"},
	}
	r := gin.New()
	r.Use(RequestID())
	secured := r.Group("", RequireAuth(tokens))
	secured.GET("/me", func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.String(http.StatusOK, p.UserID)
	})
	secured.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newAuthRouter()

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = do(r, "/me", "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/me", "citizen")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequireRole(t *testing.T) {
	r := newAuthRouter()
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "citizen").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", "admin").Code)
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(5)
	l.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		ok, _ := l.Reserve("1.2.3.4")
		assert.True(t, ok, "request %d", i)
	}
	ok, wait := l.Reserve("1.2.3.4")
	assert.False(t, ok)
	assert.InDelta(t, 12*time.Second, wait, float64(time.Second))

	ok, _ = l.Reserve("5.6.7.8")
	assert.True(t, ok)

	now = now.Add(12 * time.Second)
	ok, _ = l.Reserve("1.2.3.4")
	assert.True(t, ok)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/submit", RateLimit(NewIPRateLimiter(1)), func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	assert.Equal(t, http.StatusCreated, send().Code)
	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRequestIDPropagation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-abc-123", w.Body.String())
	assert.Equal(t, "trace-abc-123", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "has space")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "has space", w.Body.String())
	assert.Len(t, w.Body.String(), 36)
}
