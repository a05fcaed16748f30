package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/01moynul/herbal-storefront/internal/ai"
	"github.com/01moynul/herbal-storefront/internal/auth"
	"github.com/01moynul/herbal-storefront/internal/cart"
	"github.com/01moynul/herbal-storefront/internal/config"
	"github.com/01moynul/herbal-storefront/internal/database"
	"github.com/01moynul/herbal-storefront/internal/email"
	"github.com/01moynul/herbal-storefront/internal/handlers"
	"github.com/01moynul/herbal-storefront/internal/jobs"
	"github.com/01moynul/herbal-storefront/internal/notify"
	"github.com/01moynul/herbal-storefront/internal/orders"
	"github.com/01moynul/herbal-storefront/internal/routes"
	"github.com/01moynul/herbal-storefront/internal/shipping"
	"github.com/01moynul/herbal-storefront/internal/store"
	"github.com/01moynul/herbal-storefront/internal/tracing"
	"github.com/gin-gonic/gin"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// 0. --- Load Configuration (.env + environment) ---
	cfg := config.Load(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. --- Tracing ---
	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: "herbal-storefront",
		Environment: cfg.Env,
		ExporterURL: cfg.OTelExporterURL,
		SampleRate:  cfg.OTelSampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	// 2. --- Database Connection + Schema ---
	db, err := database.OpenDB(ctx, cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	stores := store.New(db)

	// 3. --- Sessions ---
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}
	if err := ensureSuperAdmin(ctx, stores.Users, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		return err
	}

	// 4. --- Notifications ---
	var mailer email.Sender
	if cfg.SMTPHost != "" {
		mailer = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		logger.Warn("SMTP_HOST not set, emails will only be logged")
		mailer = email.NewLogSender(logger)
	}
	dispatcher := notify.NewDispatcher(stores.Notifications, mailer, notify.NewLogSMSSender(logger), cfg.StoreName, logger)

	// 5. --- Domain Services ---
	orderService := orders.NewService(stores.Orders, stores.Products, stores.Addresses, stores.Locations, dispatcher, logger)
	carrier := shipping.NewHTTPCarrier(cfg.CarrierName, cfg.CarrierBaseURL, cfg.CarrierAPIKey, cfg.CarrierTimeout)
	if cfg.CarrierBaseURL == "" {
		logger.Warn("CARRIER_BASE_URL not set, shipment booking will fail")
	}
	shippingService := shipping.NewService(stores.Orders, stores.Shipments, orderService, carrier, logger)

	app := &handlers.Handlers{
		Users:         stores.Users,
		Addresses:     stores.Addresses,
		Products:      stores.Products,
		Categories:    stores.Categories,
		Locations:     stores.Locations,
		Settings:      stores.Settings,
		Notifications: stores.Notifications,
		Reports:       stores.Reports,
		Orders:        orderService,
		Shipping:      shippingService,
		Cart:          cart.NewCookieStore(cfg.CookieSecure),
		Tokens:        tokens,
		Logger:        logger,
		CookieSecure:  cfg.CookieSecure,
		UploadDir:     cfg.UploadDir,
		PublicBaseURL: cfg.PublicBaseURL,
	}

	// 6. --- AI Copywriter (optional) ---
	if cfg.GeminiAPIKey != "" {
		copywriter, err := ai.NewCopywriter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return err
		}
		defer copywriter.Close()
		app.Copywriter = copywriter
	} else {
		logger.Info("GEMINI_API_KEY not set, AI descriptions disabled")
	}

	// 7. --- Background Workers (Cron) ---
	syncJob := jobs.NewTrackingSyncJob(shippingService, cfg.TrackingSyncCron, logger)
	if err := syncJob.Start(); err != nil {
		if !errors.Is(err, jobs.ErrNoSchedule) {
			return err
		}
		logger.Info("TRACKING_SYNC_CRON not set, tracking sync runs on demand only")
	} else {
		defer syncJob.Stop()
	}

	// 8. --- Router + Server ---
	router := routes.SetupRouter(app, stores.Settings, cfg.CORSOrigin)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           tracing.WrapHTTPHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting storefront API", "addr", cfg.HTTPAddr, "env", cfg.Env)
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
