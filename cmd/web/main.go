package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/config"
	"rumal.store/web/internal/events"
	"rumal.store/web/internal/gateway"
	apphttp "rumal.store/web/internal/http"
	"rumal.store/web/internal/mailer"
	"rumal.store/web/internal/modules/admin"
	"rumal.store/web/internal/modules/cart"
	"rumal.store/web/internal/modules/catalog"
	"rumal.store/web/internal/modules/orders"
	"rumal.store/web/internal/modules/reviews"
	"rumal.store/web/internal/modules/vendors"
	"rumal.store/web/internal/modules/wishlist"
	"rumal.store/web/internal/query"
	"rumal.store/web/internal/storage"
	"rumal.store/web/templates"
)

const (
	sseHeartbeat  = 25 * time.Second
	sweepInterval = time.Hour
)

func main() {
	// .env is optional; production uses real env vars
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dsn, err := cfg.DB.SessionDSN()
	if err != nil {
		return err
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return err
	}

	sessions := auth.NewSessionStore(db)
	if err := sessions.Migrate(ctx); err != nil {
		return err
	}

	store := query.NewStore(ctx, query.StoreConfig{
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
	}, logger)
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	bus := events.NewBus(logger)
	cache := query.New(store,
		query.WithTTL(cfg.Cache.TTL),
		query.WithLoadTimeout(cfg.Gateway.Timeout),
		query.WithNotifier(bus),
		query.WithLogger(logger),
	)

	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		Timeout: cfg.Gateway.Timeout,
		RPS:     cfg.Gateway.RPS,
		Burst:   cfg.Gateway.Burst,
	}, logger, gateway.WithUserAgent("rumal-web"))
	if err != nil {
		return err
	}

	signer := auth.NewSigner([]byte(cfg.Session.CookieSecret))
	manager := auth.NewManager(auth.NewOAuthProvider(cfg.OAuth), sessions, signer, auth.ManagerConfig{
		SessionTTL:      cfg.Session.TTL,
		LogoutReturnURL: cfg.OAuth.LogoutReturnURL,
	}, logger)

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	tpl, err := templates.Load(cfg.App.CDNImageBase)
	if err != nil {
		return err
	}

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:    logger,
		Config:    cfg,
		DB:        db,
		Templates: tpl,
		Manager:   manager,
		Bus:       bus,
		Heartbeat: sseHeartbeat,

		Catalog: catalog.NewService(gw, cache),
		Cart:    cart.NewService(gw, cache),
		Wishlist: wishlist.NewService(gw, cache, mailer.New(cfg.SMTP, logger), wishlist.Config{
			MailFrom:  cfg.SMTP.From,
			PublicURL: cfg.App.PublicURL,
		}),
		Orders:      orders.NewService(gw, cache),
		OrdersAdmin: orders.NewAdminService(gw, cache),
		Reviews:     reviews.NewService(gw, cache),
		Vendors:     vendors.NewService(gw, cache),
		Admin:       admin.NewService(gw, cache),
		Images:      storage.NewImages(objects, cfg.App.CDNImageBase),
	})

	go sweepSessions(ctx, sessions, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(bus.Close)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr), slog.String("env", cfg.App.Env), slog.String("gateway", gw.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sweepSessions drops expired sessions until ctx ends.
func sweepSessions(ctx context.Context, sessions *auth.SessionStore, logger *slog.Logger) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := sessions.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("session sweep failed", slog.Any("err", err))
				continue
			}
			if n > 0 {
				logger.Info("expired sessions removed", slog.Int64("count", n))
			}
		}
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
