package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jansamadhan/backend/internal/auth"
	"github.com/jansamadhan/backend/internal/db"
	"github.com/jansamadhan/backend/internal/models"
	"github.com/jansamadhan/backend/internal/service"
	"github.com/jansamadhan/backend/internal/storage"
)

// Store is the subset of *db.Store the handlers read and write through.
type Store interface {
	Ping(ctx context.Context) error
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	UpsertGoogleUser(ctx context.Context, email, fullName string) (models.User, error)
	ListGrievances(ctx context.Context, f db.GrievanceFilter) ([]models.Grievance, error)
	GetGrievance(ctx context.Context, id string) (models.Grievance, error)
	ResolveGrievance(ctx context.Context, id string) (models.Grievance, error)
	GrievanceStats(ctx context.Context) ([]models.CategoryCount, error)
}

type Submitter interface {
	Submit(ctx context.Context, sub service.Submission) (service.SubmitResult, error)
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (auth.GoogleIdentity, error)
}

type Handler struct {
	Store          Store
	Blobs          storage.BlobStore
	Intake         Submitter
	Tokens         *auth.TokenManager
	Google         GoogleVerifier
	Validator      *validator.Validate
	Logger         zerolog.Logger
	MaxUploadBytes int64
}

// @Summary Service banner
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Jan Samadhan API is running"})
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
