package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/Domenick1991/guestportal/api"
	"github.com/Domenick1991/guestportal/config"
	"github.com/Domenick1991/guestportal/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerSpecPath = "/swagger-spec"

type Handlers struct {
	Bookings  *api.BookingHandler
	Dashboard *api.DashboardHandler
	Guest     *api.GuestHandler
	Hotels    *api.HotelHandler
}

// Run starts the HTTP server and blocks until ctx is canceled or the server
// fails.
func Run(ctx context.Context, cfg *config.Config, handlers Handlers) error {
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg, handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTP.Address)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(cfg *config.Config, handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), middleware.ErrorLogger())
	router.Use(cors.New(corsConfig(cfg.HTTP.CORSOrigins)))

	if cfg.Booking.MaxUploadMegabytes > 0 {
		router.MaxMultipartMemory = int64(cfg.Booking.MaxUploadMegabytes) << 20
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Storage.BaseDir != "" && cfg.Storage.PublicBase != "" {
		router.Static(cfg.Storage.PublicBase, cfg.Storage.BaseDir)
	}

	if cfg.HTTP.SwaggerDir != "" {
		router.Static(swaggerSpecPath, cfg.HTTP.SwaggerDir)
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL(swaggerSpecPath+"/guestportal.swagger.json"),
		)))
	}

	dashboard := router.Group("/dashboard")
	handlers.Dashboard.Register(dashboard)
	handlers.Bookings.Register(dashboard)
	handlers.Hotels.Register(router.Group("/hotels"))
	handlers.Guest.Register(router.Group("/guest"))

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Location"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
