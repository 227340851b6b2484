package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"venue_booking/internal/adapters/nominatim"
	"venue_booking/internal/adapters/observability"
	redisad "venue_booking/internal/adapters/redis"
	"venue_booking/internal/app"
	"venue_booking/internal/domain"
	"venue_booking/internal/shared"
	mysqlrepo "venue_booking/internal/storage/mysql"
)

func main() {
	var (
		file    = pflag.StringP("file", "f", "venues.json", "JSON array of venue records")
		owner   = pflag.Int64("owner", 0, "venue manager id for records that carry none")
		dryRun  = pflag.Bool("dry-run", false, "print the mapped venues without writing")
		workers = pflag.Int("workers", 0, "concurrent geocode/insert workers (default SEED_WORKERS)")
	)
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "seeder")
	if *workers < 1 {
		*workers = cfg.SeedWorkers
	}

	log.Info().
		Str("file", *file).
		Int64("owner", *owner).
		Int("workers", *workers).
		Bool("dry_run", *dryRun).
		Msg("seeder starting")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("open seed file failed")
	}
	recs, skipped, err := app.DecodeSeed(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("decode seed file failed")
	}

	geo, err := nominatim.New(cfg.NominatimBase, cfg.NominatimUserAgent, cfg.NominatimRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("nominatim client init failed")
	}

	var (
		venues domain.VenueRepository
		cache  domain.Cache = app.NopCache{}
	)
	if !*dryRun {
		db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("mysql connect failed")
		}
		defer db.Close()
		log.Info().Msg("db ping ok")
		venues = mysqlrepo.New(db)

		if cfg.RedisAddr != "" {
			rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
			defer rc.Close()
			cache = rc
		}
	}

	rep, err := app.NewSeedService(venues, geo, cache, *workers).Run(ctx, recs, *owner, *dryRun)
	rep.Skipped += skipped
	if err != nil {
		log.Error().Err(err).Msg("seeding interrupted")
	}

	if *dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep.Venues); err != nil {
			log.Error().Err(err).Msg("print venues failed")
		}
	}

	log.Info().
		Int("read", rep.Read+skipped).
		Int("skipped", rep.Skipped).
		Int("geocoded", rep.Geocoded).
		Int("inserted", rep.Inserted).
		Int("failed", rep.Failed).
		Msg("seeding completed")
	if err != nil || rep.Failed > 0 {
		os.Exit(1)
	}
}
