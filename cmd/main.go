package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	bookSlotHandler "github.com/ankudinovm/BDA-SlotService/internal/api/handlers/book_slot"
	cancelBookingHandler "github.com/ankudinovm/BDA-SlotService/internal/api/handlers/cancel_booking"
	clearSlotsHandler "github.com/ankudinovm/BDA-SlotService/internal/api/handlers/clear_slots"
	deleteEventHandler "github.com/ankudinovm/BDA-SlotService/internal/api/handlers/delete_event"
	ensureCapacityHandler "github.com/ankudinovm/BDA-SlotService/internal/api/handlers/ensure_capacity"
	generateSlotsHandler "github.com/ankudinovm/BDA-SlotService/internal/api/handlers/generate_slots"
	getSlotsHandler "github.com/ankudinovm/BDA-SlotService/internal/api/handlers/get_slots"
	saveSlotsHandler "github.com/ankudinovm/BDA-SlotService/internal/api/handlers/save_slots"
	syncSlotsHandler "github.com/ankudinovm/BDA-SlotService/internal/api/handlers/sync_slots"
	"github.com/ankudinovm/BDA-SlotService/internal/api/middleware"
	"github.com/ankudinovm/BDA-SlotService/internal/config"
	slotRepo "github.com/ankudinovm/BDA-SlotService/internal/infra/storage/slot"
	calendarClient "github.com/ankudinovm/BDA-SlotService/internal/integrations/calendarservice"
	slotsService "github.com/ankudinovm/BDA-SlotService/internal/service/slots"
	bookSlotUC "github.com/ankudinovm/BDA-SlotService/internal/usecase/book_slot"
	generateSlotsUC "github.com/ankudinovm/BDA-SlotService/internal/usecase/generate_slots"
	"github.com/ankudinovm/BDA-SlotService/pkg/dbmetrics"
	"github.com/ankudinovm/BDA-SlotService/pkg/logger"
	"github.com/ankudinovm/BDA-SlotService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting BDA-SlotService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Клиент внешнего календаря
	calendar := calendarClient.NewClient(
		cfg.CalendarService.URL,
		time.Duration(cfg.CalendarService.Timeout)*time.Second,
		log,
	)
	log.Info("Calendar client initialized (URL=%s timeout=%ds)",
		cfg.CalendarService.URL, cfg.CalendarService.Timeout)

	// Инициализируем репозиторий (с метриками или без)
	var slotRepository *slotRepo.Repository

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		slotRepository = slotRepo.NewRepository(db)
	}

	// Инициализируем сервисы
	slotsSvc := slotsService.NewService(
		slotRepository,
		calendar,
		log,
	)

	// Лимитер частоты создания событий при массовой генерации
	createLimiter := rate.NewLimiter(rate.Limit(cfg.CalendarService.CreateRatePerSec), 1)

	// Инициализируем use cases
	bookSlotUseCase := bookSlotUC.NewUseCase(
		slotRepository,
		calendar,
		log,
	)
	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		slotRepository,
		slotsSvc,
		calendar,
		createLimiter,
		log,
	)

	// Инициализируем handlers
	getSlots := getSlotsHandler.NewHandler(slotsSvc, log)
	bookSlot := bookSlotHandler.NewHandler(bookSlotUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(slotsSvc, log)
	saveSlots := saveSlotsHandler.NewHandler(slotsSvc, log)
	syncSlots := syncSlotsHandler.NewHandler(slotsSvc, log)
	ensureCapacity := ensureCapacityHandler.NewHandler(generateSlotsUseCase, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	clearSlots := clearSlotsHandler.NewHandler(slotsSvc, log)
	deleteEvent := deleteEventHandler.NewHandler(slotsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Объединённое представление слотов
	api.HandleFunc("/slots", getSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Бронирование слота
	protected.HandleFunc("/slots/book", bookSlot.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/slots/{slotId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// --- Управление слотами ---
	// Пакетное сохранение слотов
	protected.HandleFunc("/slots", saveSlots.Handle).Methods(http.MethodPut)

	// Синхронизация доступности с календарём
	protected.HandleFunc("/slots/sync", syncSlots.Handle).Methods(http.MethodPost)

	// Проверка и пополнение запаса слотов
	protected.HandleFunc("/slots/ensure-capacity", ensureCapacity.Handle).Methods(http.MethodPost)

	// Массовая генерация слотов
	protected.HandleFunc("/slots/generate", generateSlots.Handle).Methods(http.MethodPost)

	// Полная очистка слотов
	protected.HandleFunc("/slots", clearSlots.Handle).Methods(http.MethodDelete)

	// Удаление события календаря
	protected.HandleFunc("/events/{eventId}", deleteEvent.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
