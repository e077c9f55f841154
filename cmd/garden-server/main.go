package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/api"
	"github.com/anneomcl/TeamWolverine/internal/auth"
	"github.com/anneomcl/TeamWolverine/internal/config"
	"github.com/anneomcl/TeamWolverine/internal/eventbus"
	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/anneomcl/TeamWolverine/internal/logging"
	"github.com/anneomcl/TeamWolverine/internal/metrics"
	"github.com/anneomcl/TeamWolverine/internal/observability"
	"github.com/anneomcl/TeamWolverine/internal/storage"
	"github.com/anneomcl/TeamWolverine/internal/terrain"
	"github.com/anneomcl/TeamWolverine/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML-конфигурации (иначе GARDEN_CONFIG)")
	flag.Parse()

	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	if level := os.Getenv("GARDEN_LOG_LEVEL"); level != "" {
		logging.SetDefaultLevel(logging.ParseLevel(level))
	}

	if err := run(*configPath); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

func run(configPath string) error {
	logging.Info("🌻 Запуск Garden Server...")

	// === КОНФИГУРАЦИЯ ===
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("загрузка конфигурации: %w", err)
	}
	if loaded == nil {
		logging.Info("Файл конфигурации не задан, используются значения по умолчанию")
	}
	cfg := config.OrDefault(loaded)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("некорректная конфигурация: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("инициализация телеметрии: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки телеметрии: %v", err)
		}
	}()

	// === УРОВЕНЬ И ПРАВИЛА ===
	tiles, err := cfg.Tiles()
	if err != nil {
		return fmt.Errorf("построение уровня: %w", err)
	}
	logging.Info("🗺️ Уровень: %d тайлов %v", len(tiles), terrain.Summary(tiles))

	rules, err := cfg.RuleTable()
	if err != nil {
		return fmt.Errorf("таблица правил: %w", err)
	}
	roller := garden.NewRandRoller(cfg.Garden.Seed)
	selector, err := cfg.TierSelector(roller)
	if err != nil {
		return fmt.Errorf("селектор редкости: %w", err)
	}

	// === МЕТРИКИ ===
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gardenMetrics := metrics.NewGardenMetrics(registry)

	// === ШИНА СОБЫТИЙ ===
	busLogger := logging.GetComponentLogger("eventbus")
	bus, err := eventbus.Open(cfg.EventBus)
	if err != nil {
		return fmt.Errorf("шина событий: %w", err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn("Ошибка закрытия шины событий: %v", err)
		}
	}()
	if _, err := eventbus.StartLoggingListener(bus, busLogger); err != nil {
		return fmt.Errorf("логирующий подписчик: %w", err)
	}
	exporter := eventbus.NewMetricsExporter(bus, registry)
	exporter.Start(5 * time.Second)
	defer exporter.Stop()

	// === ХРАНИЛИЩЕ ===
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("хранилище прогресса: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Warn("Ошибка закрытия хранилища: %v", err)
		}
	}()
	logging.Info("💾 Хранилище прогресса: %s", backendName(cfg.Storage.Backend))

	// === СИМУЛЯЦИЯ ===
	sim := world.NewSimulation(tiles, rules, selector, garden.Options{
		AdjacencyThreshold: cfg.Garden.Threshold(),
		DefaultCategory:    garden.Category(cfg.Garden.DefaultCategory),
		Listener:           eventbus.NewPublisher(bus, busLogger),
		Roller:             roller,
		Logger:             logging.GetGardenLogger(),
	}, world.Options{
		TickInterval:     cfg.Garden.TickInterval(),
		AutosaveInterval: cfg.Storage.AutosaveInterval(),
		Store:            store,
		Metrics:          gardenMetrics,
		Logger:           logging.GetServerLogger(),
	})

	// === REST API ===
	secret := cfg.Auth.GetSecret()
	if secret == "" {
		logging.Warn("🔐 Секрет JWT не задан: сгенерирован временный, админ-эндпоинты недоступны внешним токенам")
	}
	signer, err := auth.NewSigner(secret)
	if err != nil {
		return fmt.Errorf("секрет JWT: %w", err)
	}

	restServer := api.NewRestServer(api.Config{
		Port:       fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		Simulation: sim,
		Signer:     signer,
		Logger:     logging.GetComponentLogger("http"),
		Registry:   registry,
	})

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 3)
	go func() {
		if err := sim.Run(ctx); err != nil {
			errCh <- fmt.Errorf("симуляция: %w", err)
		}
	}()
	go func() {
		if err := restServer.Start(); err != nil {
			errCh <- fmt.Errorf("REST API: %w", err)
		}
	}()
	go func() {
		logging.Info("📈 Метрики: http://localhost%s/metrics", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("сервер метрик: %w", err)
		}
	}()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost:%d/api/state", cfg.Server.GetRESTPort())
	logging.Info("   ❤️  Health check: http://localhost:%d/health", cfg.Server.GetRESTPort())

	var runErr error
	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал завершения, останавливаемся...")
	case runErr = <-errCh:
		stop()
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := restServer.Stop(shutdownCtx); err != nil {
		logging.Error("Ошибка остановки REST API: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("Ошибка остановки сервера метрик: %v", err)
	}

	select {
	case <-sim.Stopped():
	case <-shutdownCtx.Done():
		logging.Warn("Симуляция не остановилась вовремя")
	}
	return runErr
}

func backendName(backend string) string {
	if backend == "" {
		return "memory"
	}
	return backend
}
