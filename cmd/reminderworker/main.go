package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bookraft/appointment-service/internal/config"
	"github.com/bookraft/appointment-service/internal/domain"
	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
	appointmentRepo "github.com/bookraft/appointment-service/internal/infra/storage/appointment"
	businessRepo "github.com/bookraft/appointment-service/internal/infra/storage/business"
	serviceRepo "github.com/bookraft/appointment-service/internal/infra/storage/service"
	userRepo "github.com/bookraft/appointment-service/internal/infra/storage/user"
	"github.com/bookraft/appointment-service/pkg/logger"
	"github.com/bookraft/appointment-service/pkg/types"
)

// endOfDay верхняя граница окна напоминаний, когда окно выходит за полночь
const endOfDay = types.TimeString("23:59")

type worker struct {
	apptRepo      *appointmentRepo.Repository
	businessRepo  *businessRepo.Repository
	serviceRepo   *serviceRepo.Repository
	userRepo      *userRepo.Repository
	mailPublisher *mailqueue.Publisher
	leadMinutes   int
	logger        *logger.Logger
}

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

	log.Info("Starting appointment-service reminder worker...")

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к RabbitMQ
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

	w := &worker{
		apptRepo:      appointmentRepo.NewRepository(db),
		businessRepo:  businessRepo.NewRepository(db),
		serviceRepo:   serviceRepo.NewRepository(db),
		userRepo:      userRepo.NewRepository(db),
		mailPublisher: mailPublisher,
		leadMinutes:   cfg.Reminder.LeadMinutes,
		logger:        log,
	}

	interval := time.Duration(cfg.Reminder.IntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Reminder worker started (interval=%s, lead=%dm)", interval, cfg.Reminder.LeadMinutes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Reminder worker stopped gracefully")
			return
		case <-ticker.C:
			w.processReminders(ctx)
		}
	}
}

// processReminders находит подтверждённые бронирования, начинающиеся в пределах
// leadMinutes от текущего момента, и ставит напоминание в почтовую очередь
func (w *worker) processReminders(ctx context.Context) {
	now := time.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := types.NewTimeString(now)

	to, err := from.AddMinutes(w.leadMinutes)
	if err != nil {
		// Окно выходит за полночь, напоминания на завтра уйдут завтрашним циклом
		to = endOfDay
	}

	due, err := w.apptRepo.GetDueReminders(ctx, date, from, to)
	if err != nil {
		w.logger.Error("processReminders: failed to fetch due appointments: %v", err)
		return
	}

	for _, appt := range due {
		if err := w.sendReminder(ctx, appt); err != nil {
			w.logger.Error("processReminders: failed to send reminder: appointment_id=%s, error=%v", appt.ID, err)
			continue
		}
		if err := w.apptRepo.MarkReminderSent(ctx, appt.ID); err != nil {
			w.logger.Error("processReminders: failed to mark reminder sent: appointment_id=%s, error=%v", appt.ID, err)
			continue
		}
		w.logger.Info("processReminders: reminder queued: appointment_id=%s, start_time=%s", appt.ID, appt.StartTime)
	}
}

func (w *worker) sendReminder(ctx context.Context, appt *domain.Appointment) error {
	client, err := w.userRepo.GetByID(ctx, appt.ClientID)
	if err != nil {
		return fmt.Errorf("get client: %w", err)
	}
	business, err := w.businessRepo.GetByID(ctx, appt.BusinessID)
	if err != nil {
		return fmt.Errorf("get business: %w", err)
	}
	service, err := w.serviceRepo.GetByID(ctx, appt.ServiceID)
	if err != nil {
		return fmt.Errorf("get service: %w", err)
	}

	data := mailqueue.AppointmentMailData{
		ClientName:      client.FullName(),
		ClientEmail:     client.Email,
		BusinessName:    business.Name,
		ServiceName:     service.Name,
		ServicePrice:    service.Price,
		DurationMinutes: service.DurationMinutes,
		Date:            appt.Date.Format(domain.DateFormat),
		StartTime:       appt.StartTime.String(),
		EndTime:         appt.EndTime.String(),
	}
	if client.PhoneNumber != nil {
		data.ClientPhone = *client.PhoneNumber
	}
	if business.Address != nil {
		data.BusinessAddress = *business.Address
	}
	if business.Phone != nil {
		data.BusinessPhone = *business.Phone
	}
	if appt.Notes != nil {
		data.Notes = *appt.Notes
	}

	return w.mailPublisher.Publish(ctx, mailqueue.MailMessage{
		Type: mailqueue.TypeAppointmentReminder,
		To:   client.Email,
		Data: data,
	})
}
