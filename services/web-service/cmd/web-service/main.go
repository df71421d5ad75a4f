package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/barberpro/barberweb/libs/config"
	"github.com/barberpro/barberweb/libs/httpx"
	otelx "github.com/barberpro/barberweb/libs/otel"
	"github.com/barberpro/barberweb/libs/runtime"
	"github.com/barberpro/barberweb/services/web-service/internal/apiclient"
	"github.com/barberpro/barberweb/services/web-service/internal/handlers"
	"github.com/barberpro/barberweb/services/web-service/internal/session"
	"github.com/barberpro/barberweb/services/web-service/internal/views"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	devSessionSecret = "dev-session-secret-change-me-please"
	minSecretLen     = 32
)

type appConfig struct {
	Service        string
	Port           string
	Env            string
	APIURL         string
	APITimeout     time.Duration
	SessionSecret  string
	CookieSecure   bool
	Location       *time.Location
	BodyLimit      int64
	RequestTimeout time.Duration
	TelegramBotURL string
	StripeKey      string

	RateLimitPerMinute int
	RateLimitPrefix    string
	RateLimitFailOpen  bool
	RedisAddr          string
	RedisPassword      string
	RedisDB            int

	CORS httpx.CORSPolicy
}

func loadConfig() (appConfig, error) {
	var errs []error
	cfg := appConfig{
		Service:        config.String("SERVICE_NAME", "web-service"),
		Env:            config.String("APP_ENV", "dev"),
		APITimeout:     config.Seconds("API_TIMEOUT_SECONDS", 10*time.Second),
		CookieSecure:   config.Bool("COOKIE_SECURE", false),
		BodyLimit:      int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20)),
		RequestTimeout: config.Seconds("REQUEST_TIMEOUT_SECONDS", 15*time.Second),
		TelegramBotURL: config.String("TELEGRAM_BOT_URL", ""),
		StripeKey:      config.String("STRIPE_PUBLISHABLE_KEY", ""),

		RateLimitPerMinute: config.Int("RATE_LIMIT_PER_MINUTE", 10),
		RateLimitPrefix:    config.String("RATE_LIMIT_PREFIX", "booking"),
		RateLimitFailOpen:  config.Bool("RATE_LIMIT_FAIL_OPEN", false),
		RedisAddr:          config.String("REDIS_ADDR", ""),
		RedisPassword:      config.String("REDIS_PASSWORD", ""),
		RedisDB:            config.Int("REDIS_DB", 0),

		CORS: httpx.CORSPolicy{
			AllowedOrigins:   config.List("CORS_ALLOWED_ORIGINS", ""),
			AllowedMethods:   config.List("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders:   config.List("CORS_ALLOWED_HEADERS", "Content-Type,X-Request-Id"),
			AllowCredentials: config.Bool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           config.Seconds("CORS_MAX_AGE_SECONDS", 600*time.Second),
		},
	}

	var err error
	if cfg.Port, err = config.Port("PORT", "8080"); err != nil {
		errs = append(errs, err)
	}
	if cfg.APIURL, err = config.RequiredString("API_URL"); err != nil {
		errs = append(errs, err)
	}
	if cfg.Location, err = config.Location("DISPLAY_TIMEZONE", "America/Sao_Paulo"); err != nil {
		errs = append(errs, err)
	}

	cfg.SessionSecret = config.String("SESSION_SECRET", "")
	switch {
	case cfg.SessionSecret == "" && cfg.Env == "dev":
		cfg.SessionSecret = devSessionSecret
	case len(cfg.SessionSecret) < minSecretLen:
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLen))
	}
	return cfg, errors.Join(errs...)
}

// bookingLimiter picks the shared redis limiter when REDIS_ADDR is set and
// an in-process one otherwise. The returned func releases the redis client.
func bookingLimiter(cfg appConfig, logger *slog.Logger) (httpx.Middleware, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("booking rate limit enabled (in-memory)", "per_minute", cfg.RateLimitPerMinute)
		rl := httpx.NewMemoryLimiter(cfg.RateLimitPerMinute, time.Minute)
		return httpx.RateLimit(rl, logger, cfg.RateLimitFailOpen), func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	logger.Info("booking rate limit enabled (redis)", "per_minute", cfg.RateLimitPerMinute, "redis_addr", cfg.RedisAddr)
	rl := httpx.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, cfg.RateLimitPrefix)
	return httpx.RateLimit(rl, logger, cfg.RateLimitFailOpen), func() { _ = rdb.Close() }
}

// buildHandler wires the pages, the base endpoints and the middleware chain.
func buildHandler(cfg appConfig, logger *slog.Logger, limit httpx.Middleware) (http.Handler, error) {
	client := apiclient.New(cfg.APIURL, apiclient.WithTimeout(cfg.APITimeout))
	renderer, err := views.New(logger)
	if err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}
	sessions, err := session.NewManager(cfg.SessionSecret, cfg.CookieSecure)
	if err != nil {
		return nil, err
	}

	mux := runtime.NewBaseMux(runtime.ReadyCheck{Name: "api", Check: client.Ping})
	handlers.New(client, renderer, sessions, logger, handlers.Config{
		Location:             cfg.Location,
		TelegramBotURL:       cfg.TelegramBotURL,
		StripePublishableKey: cfg.StripeKey,
		BookingLimit:         limit,
	}).Register(mux)

	handler := httpx.Chain(mux,
		httpx.WithCORS(cfg.CORS),
		httpx.WithRequestID,
		httpx.WithRecover(logger),
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(cfg.BodyLimit),
		httpx.WithTimeout(cfg.RequestTimeout),
	)
	return otelhttp.NewHandler(handler, cfg.Service), nil
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := loadConfig()
	logger := runtime.NewLogger(cfg.Service)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	if cfg.SessionSecret == devSessionSecret {
		logger.Warn("SESSION_SECRET not set, using the development secret")
	}

	ctx, stop := runtime.SignalContext()
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("startup failed", "err", err)
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. It returns an error only when the
// service could not start; deferred cleanups have run by the time it returns.
func run(ctx context.Context, cfg appConfig, logger *slog.Logger) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.Service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	limit, closeLimiter := bookingLimiter(cfg, logger)
	defer closeLimiter()

	handler, err := buildHandler(cfg, logger, limit)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "api_url", cfg.APIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
	return nil
}
