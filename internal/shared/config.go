package shared

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	// RequestTimeout bounds each HTTP request end to end.
	RequestTimeout time.Duration
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	// CatalogCacheTTL applies to cached city and hotel reads.
	CatalogCacheTTL time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	GeocoderBase        string
	GeocoderUserAgent   string
	GeocoderCountry     string
	GeocoderRPS         int
	GeocoderTimeout     time.Duration
	GeocoderRetries     int
	GeocoderConcurrency int
	GeocodeCacheTTL     time.Duration

	BookingTimezone *time.Location
	WarmWorkers     int
}

// Load reads the process environment, seeded from ./.env when present.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel?parseTime=true&clientFoundRows=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		RequestTimeout:  time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		CatalogCacheTTL: time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		JWTSecret: env("JWT_SECRET", ""),
		JWTTTL:    time.Duration(atoi("JWT_TTL_HOURS", 24)) * time.Hour,

		GeocoderBase:        env("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:   env("GEOCODER_USER_AGENT", "hotel-booking/1.0"),
		GeocoderCountry:     env("GEOCODER_COUNTRY", "Brazil"),
		GeocoderRPS:         atoi("GEOCODER_RPS", 1),
		GeocoderTimeout:     time.Duration(atoi("GEOCODER_TIMEOUT_SECONDS", 10)) * time.Second,
		GeocoderRetries:     atoi("GEOCODER_RETRIES", 0),
		GeocoderConcurrency: atoi("GEOCODER_CONCURRENCY", 8),
		GeocodeCacheTTL:     time.Duration(atoi("GEOCODE_CACHE_TTL_SECONDS", 86400)) * time.Second,

		BookingTimezone: time.UTC,
		WarmWorkers:     atoi("WARM_WORKERS", 4),
	}
	if tz := os.Getenv("BOOKING_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn().Err(err).Str("tz", tz).Msg("unknown BOOKING_TIMEZONE, using UTC")
		} else {
			c.BookingTimezone = loc
		}
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; the API will refuse to start")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
