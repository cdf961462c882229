package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/spinshelf/spinshelf-backend/internal/handlers"
	"github.com/spinshelf/spinshelf-backend/internal/observability"
	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
)

type Deps struct {
	Log         *logger.Logger
	Auth        *handlers.AuthHandler
	AI          *handlers.AIHandler
	Records     *handlers.RecordsHandler
	RequireAuth gin.HandlerFunc
	RateLimit   gin.HandlerFunc
}

// NewRouter builds the gin engine with the public and authed route groups.
func NewRouter(d Deps) *gin.Engine {
	if envutil.Str("APP_MODE", "dev") == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("spinshelf-backend"))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     envutil.StrSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:5173"}),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthcheck", handlers.Healthcheck)
	if observability.Enabled() {
		r.GET("/metrics", handlers.MetricsEndpoint)
	}

	api := r.Group("/api")
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)

	authed := api.Group("")
	authed.Use(d.RequireAuth, d.RateLimit)

	ai := authed.Group("/ai")
	ai.POST("/identify", d.AI.Identify)
	ai.POST("/metadata", d.AI.Metadata)
	ai.POST("/playlist", d.AI.Playlist)
	ai.POST("/covers", d.AI.Covers)
	ai.POST("/lyrics", d.AI.Lyrics)
	ai.POST("/manual", d.AI.Manual)
	ai.POST("/setup-guide", d.AI.SetupGuide)

	authed.GET("/records/price", d.Records.Price)
	authed.POST("/covers/placeholder", d.Records.PlaceholderCover)

	return r
}
