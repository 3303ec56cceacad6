package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/catalog"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/ratelimit"
	itemrequest "github.com/nekogravitycat/shareit-backend/internal/request"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	DBPool       *pgxpool.Pool
	Logger       zerolog.Logger
	Limiter      ratelimit.Limiter
	// GatewaySecret enables gateway token checks when non-empty.
	GatewaySecret string
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo)

	// Item Module. The request repository answers existence checks so the two
	// services do not depend on each other.
	requestRepo := itemrequest.NewPgxRepository(cfg.DBPool)
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, userService, requestRepo)

	// Request Module
	requestService := itemrequest.NewService(requestRepo, userService, itemService)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, userService, itemService, clk)

	// Comment Module
	commentRepo := comment.NewPgxRepository(cfg.DBPool)
	commentService := comment.NewService(commentRepo, userService, itemService, bookingService, clk)

	// Catalog joins items with their bookings and comments.
	catalogService := catalog.NewService(userService, itemService, bookingService, commentService)

	var gateway *auth.GatewayTokenManager
	if cfg.GatewaySecret != "" {
		gateway = auth.NewGatewayTokenManager(cfg.GatewaySecret, auth.DefaultGatewayTokenTTL)
	}

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         cfg.Logger,
		Limiter:        cfg.Limiter,
		Gateway:        gateway,
		UserService:    userService,
		ItemService:    itemService,
		RequestService: requestService,
		BookingService: bookingService,
		CommentService: commentService,
		CatalogService: catalogService,
	}
	if cfg.DBPool != nil {
		routerParams.Ready = cfg.DBPool
	}

	return &Container{
		Router: api.NewRouter(routerParams),
	}
}
