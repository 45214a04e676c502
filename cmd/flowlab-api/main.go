package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Flowlab/internal/access"
	"github.com/shaiso/Flowlab/internal/api"
	"github.com/shaiso/Flowlab/internal/compare"
	"github.com/shaiso/Flowlab/internal/executor"
	"github.com/shaiso/Flowlab/internal/mq"
	"github.com/shaiso/Flowlab/internal/repo"
	"github.com/shaiso/Flowlab/internal/telemetry"
	"github.com/shaiso/Flowlab/internal/version"
)

var (
	startTime = time.Now()
	reqTotal  = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowlab_api_http_requests_total",
		Help: "Total HTTP requests handled by flowlab_api",
	})
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting flowlab-api")

	// Подключаемся к базе данных
	pool, err := repo.NewPool(context.Background())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Создаём репозитории
	flowRepo := repo.NewFlowRepo(pool)
	versionRepo := repo.NewVersionRepo(pool)
	userRepo := repo.NewUserRepo(pool)
	accessRepo := repo.NewAccessRepo(pool)

	accessSvc := access.NewService(accessRepo)

	// RabbitMQ опционален: без MQ_URL события версий не публикуются
	var publisher *mq.Publisher
	if mqURL := os.Getenv("MQ_URL"); mqURL != "" {
		conn, err := mq.NewConnection(mqURL, logger)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		if err := mq.SetupTopology(context.Background(), conn); err != nil {
			logger.Error("failed to setup MQ topology", "error", err)
			os.Exit(1)
		}
		publisher = mq.NewPublisher(conn, logger)
		logger.Info("version events enabled", "url", mqURL)
	}

	manager := version.New(version.Config{
		FlowStore:    flowRepo,
		VersionStore: versionRepo,
		Users:        userRepo,
		Access:       accessSvc,
		Events:       publisher,
		Logger:       logger,
	})

	// Движок выполнения графов — внешний сервис
	engineURL := os.Getenv("ENGINE_URL")
	if engineURL == "" {
		engineURL = "http://localhost:7860"
	}

	maxConcurrency := 0
	if v := os.Getenv("COMPARE_MAX_CONCURRENCY"); v != "" {
		maxConcurrency, err = strconv.Atoi(v)
		if err != nil {
			logger.Error("invalid COMPARE_MAX_CONCURRENCY", "value", v)
			os.Exit(1)
		}
	}

	comparer := compare.New(compare.Config{
		Versions:       versionRepo,
		Transformer:    executor.NewGraphTransformer(),
		Engine:         executor.NewHTTPEngine(engineURL),
		MaxConcurrency: maxConcurrency,
		Logger:         logger,
	})

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		Manager:  manager,
		Comparer: comparer,
		Logger:   logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		reqTotal.Inc()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
