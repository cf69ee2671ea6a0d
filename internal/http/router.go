package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jansamadhan/backend/internal/auth"
	"github.com/jansamadhan/backend/internal/config"
	"github.com/jansamadhan/backend/internal/http/handlers"
	"github.com/jansamadhan/backend/internal/http/middleware"
	"github.com/jansamadhan/backend/internal/models"
	"github.com/jansamadhan/backend/internal/storage"

	_ "github.com/jansamadhan/backend/docs"
)

type Deps struct {
	Store  handlers.Store
	Blobs  storage.BlobStore
	Intake handlers.Submitter
	Tokens *auth.TokenManager
	Google handlers.GoogleVerifier
	Logger zerolog.Logger
}

func Router(cfg config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" || cfg.CORSAllowed == "" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = splitOrigins(cfg.CORSAllowed)
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:          deps.Store,
		Blobs:          deps.Blobs,
		Intake:         deps.Intake,
		Tokens:         deps.Tokens,
		Google:         deps.Google,
		Validator:      validator.New(),
		Logger:         deps.Logger,
		MaxUploadBytes: cfg.MaxUploadSizeMB << 20,
	}

	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/google", h.GoogleLogin)
	}

	secured := r.Group("")
	secured.Use(middleware.RequireAuth(deps.Tokens))
	{
		secured.POST("/submit", middleware.RateLimit(middleware.NewIPRateLimiter(cfg.SubmitRatePerMinute)), h.Submit)
		secured.GET("/grievances", h.ListGrievances)
		secured.GET("/grievances/:id/image", h.GrievanceImage)
		secured.GET("/stats", h.Stats)
	}

	admin := secured.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/grievances/:id/resolve", h.ResolveGrievance)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
