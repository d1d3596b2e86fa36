package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/geocoding"
	server "hotel_booking/internal/adapters/http_server"
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

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	log.Info().Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		// reads fall back to MySQL and the geocoder when Redis is down
		log.Warn().Err(err).Msg("redis unavailable")
	}

	// deps
	repo := mysqlrepo.New(db)

	geo, err := geocoding.New(cfg.GeocoderBase, cfg.GeocoderUserAgent, cfg.GeocoderRPS, cfg.GeocoderTimeout, cfg.GeocoderRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize geocoding client")
	}

	auth, err := app.NewAuthService(repo, cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET must be set")
	}
	ranker := app.NewHotelRanker(app.NewCachedGeocoder(geo, cache, cfg.GeocodeCacheTTL), cfg.GeocoderCountry, cfg.GeocoderConcurrency)
	h := &server.Handlers{
		Auth:     auth,
		Catalog:  app.NewCatalogService(repo, repo, repo, cache, cfg.CatalogCacheTTL),
		Bookings: app.NewBookingService(repo, repo, repo, app.NewBookingPolicy(cfg.BookingTimezone)),
		Geo:      app.NewGeoService(geo, repo, ranker, cfg.GeocoderCountry),
	}

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
