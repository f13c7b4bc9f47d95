package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/config"
	healthcheck "github.com/vladislavdragonenkov/shop/internal/health"
	httpapi "github.com/vladislavdragonenkov/shop/internal/http"
	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shop/internal/service/cart"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/checkout"
	"github.com/vladislavdragonenkov/shop/internal/service/inventory"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
	"github.com/vladislavdragonenkov/shop/internal/service/outbox"
	"github.com/vladislavdragonenkov/shop/internal/service/payment"
	"github.com/vladislavdragonenkov/shop/internal/version"
)

// Run запускает API-сервер, ops-сервер и outbox worker, и блокируется
// до отмены ctx.
func Run(ctx context.Context, cfg config.Config) error {
	configureLogging(cfg)
	logger := log.WithField("component", "app")
	logger.Info(version.String())

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	inventorySvc := inventory.NewService(deps.Products, logger.WithField("component", "inventory"))
	catalogSvc := catalog.NewService(deps.Products, logger.WithField("component", "catalog"))
	cartSvc := cart.NewService(deps.Carts, deps.Products, logger.WithField("component", "cart"))
	checkoutSvc := checkout.NewService(
		deps.Orders, deps.Carts, inventorySvc, deps.Outbox, deps.Timeline,
		logger.WithField("component", "checkout"),
	)
	orderSvc := order.NewService(deps.Orders, deps.Timeline, logger.WithField("component", "orders"))
	paymentSvc := payment.NewService(
		deps.Orders, deps.Payments, deps.Outbox, deps.Timeline,
		logger.WithField("component", "payments"),
	)

	// Kafka и outbox worker опциональны: без брокера события копятся
	// в outbox и могут быть доставлены после включения.
	var kafkaProducer *kafka.Producer
	if cfg.KafkaEnabled {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			kafkaProducer = producer
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")

			worker := outbox.NewWorker(
				deps.Outbox,
				kafka.NewOutboxPublisher(producer, cfg.KafkaTopic),
				outbox.WithDLQPublisher(kafka.NewOutboxPublisher(producer, cfg.KafkaDLQTopic)),
				outbox.WithPollInterval(cfg.OutboxPollInterval),
				outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			)
			go worker.Run(ctx)
		}
	}

	healthHandler := healthcheck.NewHandler(version.String())
	if deps.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return deps.Store.Ping(checkCtx)
		}))
	}
	if deps.RedisClient != nil {
		healthHandler.RegisterChecker("redis", healthcheck.NewSimpleChecker("redis", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return deps.RedisClient.Ping(checkCtx).Err()
		}))
	}
	opsSrv := startOpsServer(ctx, cfg.OpsAddr, logger, healthHandler)

	server := httpapi.NewServer(
		catalogSvc, cartSvc, checkoutSvc, orderSvc, paymentSvc, inventorySvc,
		logger.WithField("component", "http"),
	)
	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: server.Engine()}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("api server shutdown with error")
		}
		shutdownHTTP(opsSrv, logger)
		closeKafka(kafkaProducer, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(opsSrv, logger)
		closeKafka(kafkaProducer, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func configureLogging(cfg config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// startOpsServer запускает служебный HTTP: метрики и health-пробы.
func startOpsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("ops shutdown with error")
	}
}

func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}
	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
		return
	}
	logger.Info("kafka producer closed")
}
