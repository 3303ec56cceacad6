package api

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/catalog"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	commentHttp "github.com/nekogravitycat/shareit-backend/internal/comment/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/ratelimit"
	itemrequest "github.com/nekogravitycat/shareit-backend/internal/request"
	requestHttp "github.com/nekogravitycat/shareit-backend/internal/request/http"
	"github.com/nekogravitycat/shareit-backend/internal/user"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	Logger       zerolog.Logger

	// Ready is pinged by /readyz. Nil means always ready.
	Ready Pinger
	// Limiter is optional; nil disables rate limiting.
	Limiter ratelimit.Limiter
	// Gateway is optional; nil disables gateway token checks.
	Gateway *auth.GatewayTokenManager

	UserService    user.Service
	ItemService    item.Service
	RequestService itemrequest.Service
	BookingService booking.Service
	CommentService comment.Service
	CatalogService catalog.Service
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (request ID, logging, metrics, CORS, rate limiting)
// and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Recovery captures panics and returns a 500 instead of crashing the server.
	r.Use(gin.Recovery(), RequestID(), Logger(cfg.Logger), Metrics())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && len(cfg.ProdOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.ProdOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", auth.HeaderSharerUserID, headerRequestID}
	corsConfig.ExposeHeaders = []string{headerRequestID}
	r.Use(cors.New(corsConfig))

	// Probes and metrics live outside /v1 and skip identity checks.
	r.GET("/livez", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/readyz", readyz(cfg.Ready))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// identityMiddleware: resolves the acting user from X-Sharer-User-Id.
	identityMiddleware := auth.SharerUserID()

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService, cfg.CatalogService)
	requestHandler := requestHttp.NewHandler(cfg.RequestService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	commentHandler := commentHttp.NewHandler(cfg.CommentService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	if cfg.Gateway != nil {
		v1.Use(auth.GatewayRequired(cfg.Gateway))
	}
	if cfg.Limiter != nil {
		v1.Use(ratelimit.Middleware(cfg.Limiter))
	}
	{
		userHttp.RegisterRoutes(v1, userHandler)
		itemHttp.RegisterRoutes(v1, itemHandler, identityMiddleware)
		commentHttp.RegisterRoutes(v1, commentHandler, identityMiddleware)
		requestHttp.RegisterRoutes(v1, requestHandler, identityMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, identityMiddleware)
	}

	return r
}

func readyz(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			if err := p.Ping(c.Request.Context()); err != nil {
				zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("readiness check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
