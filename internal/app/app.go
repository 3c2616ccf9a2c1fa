package app

import (
	"log/slog"
	"net/http"

	"rentanything/internal/config"
	"rentanything/internal/middleware"
	"rentanything/internal/modules/auth"
	"rentanything/internal/modules/booking"
	"rentanything/internal/modules/listing"
	"rentanything/internal/modules/review"
	"rentanything/internal/notification"
	"rentanything/internal/pkg/images"
	jwtsvc "rentanything/internal/pkg/jwt"
	"rentanything/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App is the assembled HTTP application.
type App struct {
	Router *gin.Engine
	Hub    *notification.Hub
	JWT    *jwtsvc.Service
}

// Options carries the optional external integrations. Nil fields are disabled.
type Options struct {
	ImageStore images.Store
	Publisher  notification.Publisher
}

// BodyLimit sizes the request body cap for a listing carrying the maximum number of
// inline base64 images of imageMaxBytes each, plus room for the JSON around them.
func BodyLimit(imageMaxBytes int64) int64 {
	return maxImagesPerListing*imageMaxBytes*4/3 + 1<<20
}

const maxImagesPerListing = 10

func New(cfg *config.Config, db *gorm.DB, log *slog.Logger, opts Options) *App {
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	hub := notification.NewHub(log)
	notifier := notification.NewNotifier(hub, opts.Publisher, log)
	processor := images.NewProcessor(opts.ImageStore, cfg.ImageMaxBytes, log)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j, j.TTL(), cfg.BcryptCost))
	listingHandler := listing.NewHandler(listing.NewService(listingRepo, categoryRepo, reviewRepo, processor))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, listingRepo, notifier))
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, listingRepo))
	wsHandler := notification.NewHandler(hub, j, cfg.CORSAllowedOrigins)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.BodyLimit(BodyLimit(cfg.ImageMaxBytes)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "wsClients": hub.OnlineCount()})
	})
	wsHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		listingHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			listingHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}

		reviewHandler.RegisterRoutes(v1, protected)
	}

	return &App{Router: r, Hub: hub, JWT: j}
}
