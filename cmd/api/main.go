package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/cache"
	"github.com/BruksfildServices01/care-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/care-scheduler/internal/db"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/mailer"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/payments"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
	"github.com/BruksfildServices01/care-scheduler/internal/routes"
	"github.com/BruksfildServices01/care-scheduler/internal/tracing"
)

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("tracing setup failed")
	}

	// ======================================================
	// DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := dbpkg.Migrate(db); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}

	// ======================================================
	// OPTIONAL INFRA
	// ======================================================
	rdb, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, using in-process locks and hub")
		rdb = nil
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	sinks := []audit.Sink{audit.New(db)}
	if publisher.Enabled() {
		sinks = append(sinks, audit.NewPublisherSink(publisher))
	}
	dispatcher := audit.NewDispatcher(sinks...)

	mail := mailer.NewAsync(mailer.New(cfg))
	notifier := notify.NewService(db, notify.NewHub(rdb), mail)

	var store storage.Store
	if s3 := storage.NewS3Store(cfg); s3 != nil {
		store = s3
	}

	deps := routes.Deps{
		DB:       db,
		Config:   cfg,
		Redis:    rdb,
		Audit:    dispatcher,
		Mail:     mail,
		Notifier: notifier,
		Files:    storage.NewService(db, store),
		Locker:   cache.NewLocker(rdb),
	}

	mp, err := payments.NewMercadoPago(cfg.MercadoPagoToken)
	if err != nil {
		log.WithError(err).Warn("mercado pago disabled")
	}
	if mp != nil {
		deps.AppointmentPayments = mp
	}
	if st := payments.NewStripe(cfg.StripeSecretKey, cfg.StripeCurrency); st != nil {
		deps.InvoicePayments = st
	}

	// ======================================================
	// HTTP
	// ======================================================
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, "care-scheduler"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server error")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown error")
	}

	dispatcher.Close()
	mail.Wait()
	if err := publisher.Close(); err != nil {
		log.WithError(err).Warn("kafka writer close")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Warn("tracing shutdown")
	}

	log.Info("server stopped")
}
