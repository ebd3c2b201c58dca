package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/guestportal/api"
	"github.com/Domenick1991/guestportal/config"
	"github.com/Domenick1991/guestportal/internal/bootstrap"
	"github.com/Domenick1991/guestportal/internal/cache"
	"github.com/Domenick1991/guestportal/internal/database"
	"github.com/Domenick1991/guestportal/internal/kafka"
	"github.com/Domenick1991/guestportal/internal/repository"
	"github.com/Domenick1991/guestportal/internal/service/booking"
	"github.com/Domenick1991/guestportal/internal/service/dashboard"
	"github.com/Domenick1991/guestportal/internal/service/hotels"
	"github.com/Domenick1991/guestportal/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bookingRepo, hotelRepo, closeStore := openStore(ctx, cfg.Database)
	defer closeStore()

	if err := hotelRepo.Seed(ctx, cfg.Hotels); err != nil {
		log.Fatalf("seed hotels: %v", err)
	}

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Booking.HotelsCacheTTL)*time.Second,
		time.Duration(cfg.Booking.DraftTTLHours)*time.Hour,
	)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.Printf("WARNING: redis unavailable: %v", err)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.Printf("WARNING: %v", err)
	}

	maxUpload := int64(cfg.Booking.MaxUploadMegabytes) << 20
	files := storage.NewLocalStore(cfg.Storage.BaseDir, cfg.Storage.PublicBase, maxUpload)

	bookingService := booking.NewBookingService(
		bookingRepo,
		hotelRepo,
		redisCache,
		files,
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithSubmitLockTTL(time.Duration(cfg.Booking.SubmitLockSeconds)*time.Second),
	)
	hotelService := hotels.NewHotelService(hotelRepo, redisCache)
	dashboardService := dashboard.NewDashboardService(bookingRepo, hotelRepo,
		dashboard.WithRecentLimit(cfg.Booking.RecentActivityLimit))

	handlers := bootstrap.Handlers{
		Bookings:  api.NewBookingHandler(bookingService, cfg.HTTP.PublicBaseURL),
		Dashboard: api.NewDashboardHandler(dashboardService),
		Guest:     api.NewGuestHandler(bookingService, 2*maxUpload),
		Hotels:    api.NewHotelHandler(hotelService),
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore connects the configured engine and migrates its schema.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (repository.BookingRepository, repository.HotelRepository, func()) {
	if cfg.Engine == config.EngineGorm {
		db, err := database.Connect(cfg.GormDSN)
		if err != nil {
			log.Fatalf("connect database: %v", err)
		}
		if err := repository.MigrateGorm(db); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormBookingRepository(db), repository.NewGormHotelRepository(db), closeDB
	}

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	if err := repository.MigratePG(ctx, pool); err != nil {
		log.Fatalf("migrate postgres: %v", err)
	}
	return repository.NewBookingRepository(pool), repository.NewHotelRepository(pool), pool.Close
}
