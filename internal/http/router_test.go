package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jansamadhan/backend/internal/auth"
	"github.com/jansamadhan/backend/internal/config"
	"github.com/jansamadhan/backend/internal/db"
	"github.com/jansamadhan/backend/internal/models"
)

type emptyStore struct{}

func (emptyStore) Ping(context.Context) error { return nil }
func (emptyStore) CreateUser(context.Context, models.User) (models.User, error) {
	return models.User{}, nil
}
func (emptyStore) GetUserByEmail(context.Context, string) (models.User, error) {
	return models.User{}, db.ErrNotFound
}
func (emptyStore) GetUserByID(context.Context, string) (models.User, error) {
	return models.User{}, db.ErrNotFound
}
func (emptyStore) UpsertGoogleUser(context.Context, string, string) (models.User, error) {
	return models.User{}, nil
}
func (emptyStore) ListGrievances(context.Context, db.GrievanceFilter) ([]models.Grievance, error) {
	return []models.Grievance{}, nil
}
func (emptyStore) GetGrievance(context.Context, string) (models.Grievance, error) {
	return models.Grievance{}, db.ErrNotFound
}
func (emptyStore) ResolveGrievance(context.Context, string) (models.Grievance, error) {
	return models.Grievance{}, db.ErrNotFound
}
func (emptyStore) GrievanceStats(context.Context) ([]models.CategoryCount, error) {
	return []models.CategoryCount{}, nil
}

func newTestRouter() (*gin.Engine, *auth.TokenManager) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("s", time.Hour)
	cfg := config.Config{CORSAllowed: "*", MaxUploadSizeMB: 1, SubmitRatePerMinute: 5}
	return Router(cfg, Deps{Store: emptyStore{}, Tokens: tokens, Logger: zerolog.Nop()}), tokens
}

func TestRouterPublicRoutes(t *testing.T) {
	r, _ := newTestRouter()

	for _, path := range []string{"/", "/healthz", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouterProtectsGrievanceRoutes(t *testing.T) {
	r, tokens := newTestRouter()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/submit"},
		{http.MethodGet, "/grievances"},
		{http.MethodGet, "/stats"},
		{http.MethodPost, "/grievances/x/resolve"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}

	tok, _ := tokens.Issue(auth.Principal{UserID: "u1", Role: models.RoleCitizen})
	req := httptest.NewRequest(http.MethodPost, "/grievances/x/resolve", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	r, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodOptions, "/submit", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.in", "https://b.in"}, splitOrigins(" https://a.in, ,https://b.in"))
}
