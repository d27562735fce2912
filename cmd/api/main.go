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
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/bookraft/appointment-service/internal/api/handlers/cancel_appointment"
	changePasswordHandler "github.com/bookraft/appointment-service/internal/api/handlers/change_password"
	confirmPasswordResetHandler "github.com/bookraft/appointment-service/internal/api/handlers/confirm_password_reset"
	createAppointmentHandler "github.com/bookraft/appointment-service/internal/api/handlers/create_appointment"
	createBusinessHandler "github.com/bookraft/appointment-service/internal/api/handlers/create_business"
	createServiceHandler "github.com/bookraft/appointment-service/internal/api/handlers/create_service"
	deleteServiceHandler "github.com/bookraft/appointment-service/internal/api/handlers/delete_service"
	getAppointmentHandler "github.com/bookraft/appointment-service/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/bookraft/appointment-service/internal/api/handlers/get_available_slots"
	getBusinessHandler "github.com/bookraft/appointment-service/internal/api/handlers/get_business"
	getBusinessAppointmentsHandler "github.com/bookraft/appointment-service/internal/api/handlers/get_business_appointments"
	getBusinessHoursHandler "github.com/bookraft/appointment-service/internal/api/handlers/get_business_hours"
	getProfileHandler "github.com/bookraft/appointment-service/internal/api/handlers/get_profile"
	getUserAppointmentsHandler "github.com/bookraft/appointment-service/internal/api/handlers/get_user_appointments"
	listBusinessesHandler "github.com/bookraft/appointment-service/internal/api/handlers/list_businesses"
	listServicesHandler "github.com/bookraft/appointment-service/internal/api/handlers/list_services"
	loginUserHandler "github.com/bookraft/appointment-service/internal/api/handlers/login_user"
	registerUserHandler "github.com/bookraft/appointment-service/internal/api/handlers/register_user"
	requestPasswordResetHandler "github.com/bookraft/appointment-service/internal/api/handlers/request_password_reset"
	updateAppointmentStatusHandler "github.com/bookraft/appointment-service/internal/api/handlers/update_appointment_status"
	updateBusinessHandler "github.com/bookraft/appointment-service/internal/api/handlers/update_business"
	updateBusinessHoursHandler "github.com/bookraft/appointment-service/internal/api/handlers/update_business_hours"
	updateProfileHandler "github.com/bookraft/appointment-service/internal/api/handlers/update_profile"
	updateServiceHandler "github.com/bookraft/appointment-service/internal/api/handlers/update_service"
	verifyEmailHandler "github.com/bookraft/appointment-service/internal/api/handlers/verify_email"
	"github.com/bookraft/appointment-service/internal/api/middleware"
	"github.com/bookraft/appointment-service/internal/config"
	"github.com/bookraft/appointment-service/internal/infra/auth"
	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
	appointmentRepo "github.com/bookraft/appointment-service/internal/infra/storage/appointment"
	businessRepo "github.com/bookraft/appointment-service/internal/infra/storage/business"
	serviceRepo "github.com/bookraft/appointment-service/internal/infra/storage/service"
	userRepo "github.com/bookraft/appointment-service/internal/infra/storage/user"
	"github.com/bookraft/appointment-service/internal/infra/tokens"
	accountsService "github.com/bookraft/appointment-service/internal/service/accounts"
	appointmentsService "github.com/bookraft/appointment-service/internal/service/appointments"
	businessesService "github.com/bookraft/appointment-service/internal/service/businesses"
	createAppointmentUC "github.com/bookraft/appointment-service/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/bookraft/appointment-service/internal/usecase/get_available_slots"
	"github.com/bookraft/appointment-service/pkg/dbmetrics"
	"github.com/bookraft/appointment-service/pkg/logger"
	"github.com/bookraft/appointment-service/pkg/metrics"
	"github.com/bookraft/appointment-service/pkg/simpletxmanager"
	"github.com/bookraft/appointment-service/pkg/txmanager"
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

	log.Info("Starting appointment-service API...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Подключаемся к Redis (хранилище одноразовых токенов)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to ping Redis: %v", err)
	}
	log.Info("Successfully connected to Redis (addr=%s)", cfg.Redis.Addr)

	tokenStore := tokens.NewStore(
		redisClient,
		time.Duration(cfg.Tokens.VerificationTTLHours)*time.Hour,
		time.Duration(cfg.Tokens.PasswordResetTTLMinutes)*time.Minute,
	)

	// Подключаемся к RabbitMQ (очередь почтовых сообщений)
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ: %v", err)
	}
	defer amqpConn.Close()

	mailPublisher, err := mailqueue.NewPublisher(
		amqpConn,
		cfg.RabbitMQ.MailQueue,
		time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second,
		log,
	)
	if err != nil {
		log.Fatal("Failed to initialize mail publisher: %v", err)
	}
	defer mailPublisher.Close()
	log.Info("Mail publisher initialized (queue=%s)", cfg.RabbitMQ.MailQueue)

	// Менеджер JWT токенов
	tokenManager := auth.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpirationHours)*time.Hour)

	// Инициализируем репозитории (с метриками или без)
	var (
		userRepository        *userRepo.Repository
		businessRepository    *businessRepo.Repository
		serviceRepository     *serviceRepo.Repository
		appointmentRepository *appointmentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		userRepository = userRepo.NewRepository(wrappedDB)
		businessRepository = businessRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		userRepository = userRepo.NewRepository(db)
		businessRepository = businessRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	accountsSvc := accountsService.NewService(
		userRepository,
		tokenStore,
		tokenManager,
		mailPublisher,
		cfg.Tokens.VerificationTTLHours,
		cfg.Tokens.PasswordResetTTLMinutes,
		log,
	)
	businessesSvc := businessesService.NewService(
		businessRepository,
		businessRepository,
		serviceRepository,
		txMgr,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		businessRepository,
		serviceRepository,
		userRepository,
		mailPublisher,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		businessRepository,
		businessRepository,
		serviceRepository,
		appointmentRepository,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		businessRepository,
		businessRepository,
		serviceRepository,
		userRepository,
		txMgr,
		mailPublisher,
		log,
	)

	// Инициализируем handlers
	registerUser := registerUserHandler.NewHandler(accountsSvc, log)
	loginUser := loginUserHandler.NewHandler(accountsSvc, log)
	verifyEmail := verifyEmailHandler.NewHandler(accountsSvc, log)
	requestPasswordReset := requestPasswordResetHandler.NewHandler(accountsSvc, log)
	confirmPasswordReset := confirmPasswordResetHandler.NewHandler(accountsSvc, log)
	getProfile := getProfileHandler.NewHandler(accountsSvc, log)
	updateProfile := updateProfileHandler.NewHandler(accountsSvc, log)
	changePassword := changePasswordHandler.NewHandler(accountsSvc, log)

	createBusiness := createBusinessHandler.NewHandler(businessesSvc, log)
	getBusiness := getBusinessHandler.NewHandler(businessesSvc, log)
	listBusinesses := listBusinessesHandler.NewHandler(businessesSvc, log)
	updateBusiness := updateBusinessHandler.NewHandler(businessesSvc, log)
	getBusinessHours := getBusinessHoursHandler.NewHandler(businessesSvc, log)
	updateBusinessHours := updateBusinessHoursHandler.NewHandler(businessesSvc, log)
	createService := createServiceHandler.NewHandler(businessesSvc, log)
	listServices := listServicesHandler.NewHandler(businessesSvc, log)
	updateService := updateServiceHandler.NewHandler(businessesSvc, log)
	deleteService := deleteServiceHandler.NewHandler(businessesSvc, log)

	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Регистрация и вход
	api.HandleFunc("/auth/register", registerUser.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", loginUser.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-email", verifyEmail.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/password-reset/request", requestPasswordReset.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/password-reset/confirm", confirmPasswordReset.Handle).Methods(http.MethodPost)

	// Публичный каталог бизнесов и услуг
	api.HandleFunc("/businesses", listBusinesses.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}", getBusiness.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/hours", getBusinessHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/services", listServices.Handle).Methods(http.MethodGet)

	// Доступные слоты для записи
	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokenManager, log))

	// --- Профиль ---
	protected.HandleFunc("/profile", getProfile.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/profile", updateProfile.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/profile/password", changePassword.Handle).Methods(http.MethodPut)

	// --- Управление бизнесом ---
	protected.HandleFunc("/businesses", createBusiness.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}", updateBusiness.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/hours", updateBusinessHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/services/{serviceId}", deleteService.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", getUserAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/businesses/{businessId}/appointments", getBusinessAppointments.Handle).Methods(http.MethodGet)

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
