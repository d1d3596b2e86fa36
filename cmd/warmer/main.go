package main

import (
	"context"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/geocoding"
	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	"hotel_booking/internal/shared"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("base", cfg.GeocoderBase).
		Int("workers", cfg.WarmWorkers).
		Int("rps", cfg.GeocoderRPS).
		Msg("warmer starting")

	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis unavailable, nothing to warm")
	}

	geo, err := geocoding.New(cfg.GeocoderBase, cfg.GeocoderUserAgent, cfg.GeocoderRPS, cfg.GeocoderTimeout, cfg.GeocoderRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize geocoding client")
	}

	w := app.NewGeocodeWarmer(mysqlrepo.New(db), app.NewCachedGeocoder(geo, cache, cfg.GeocodeCacheTTL), cfg.GeocoderCountry, cfg.WarmWorkers)
	rep, err := w.WarmAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("warm aborted")
	}
	log.Info().Int("hotels", rep.Hotels).Int("warmed", rep.Warmed).Int("failed", rep.Failed).Msg("warm completed")
}
