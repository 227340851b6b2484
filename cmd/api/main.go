package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"venue_booking/internal/adapters/auth"
	server "venue_booking/internal/adapters/http_server"
	"venue_booking/internal/adapters/kafka"
	"venue_booking/internal/adapters/nominatim"
	"venue_booking/internal/adapters/observability"
	"venue_booking/internal/adapters/pictures"
	redisad "venue_booking/internal/adapters/redis"
	"venue_booking/internal/app"
	"venue_booking/internal/domain"
	"venue_booking/internal/shared"
	mysqlrepo "venue_booking/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("mysql connect failed")
	}
	defer db.Close()
	log.Info().Msg("database connection ok")
	repo := mysqlrepo.New(db)

	// cache
	var cache domain.Cache = app.NopCache{}
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, reads fall through to mysql")
		}
		cache = rc
	}

	geo, err := nominatim.New(cfg.NominatimBase, cfg.NominatimUserAgent, cfg.NominatimRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("nominatim client init failed")
	}

	store, err := pictureStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("picture store init failed")
	}
	pics := app.NewPictureService(store, pictures.NewNamer())

	var notifier domain.Notifier = kafka.LogNotifier{L: log.Logger}
	if len(cfg.KafkaBrokers) > 0 {
		kn := kafka.NewNotifier(kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic), cfg.KafkaTopic)
		defer kn.Close()
		notifier = kn
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	if cfg.AdminAPIKey == "" {
		log.Warn().Msg("ADMIN_API_KEY is empty, admin routes are closed")
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Accounts:       app.NewAccountService(repo, auth.NewBcryptHasher(), tokens, pics),
		Queries:        app.NewQueryService(repo, repo, cache, cfg.CacheTTL),
		Venues:         app.NewVenueService(repo, geo, pics, cache),
		Bookings:       app.NewBookingService(repo, repo, notifier),
		Events:         app.NewEventService(repo, repo, repo),
		Pictures:       pics,
		Tokens:         tokens,
		AdminKey:       cfg.AdminAPIKey,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func pictureStore(ctx context.Context, cfg shared.Config) (domain.PictureStore, error) {
	if cfg.StorageDriver == "s3" {
		s3, err := pictures.NewS3Store(ctx, pictures.S3Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	fs, err := pictures.NewFSStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	return fs, nil
}
