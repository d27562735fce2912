package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/bookraft/appointment-service/internal/config"
	"github.com/bookraft/appointment-service/internal/infra/mailqueue"
	"github.com/bookraft/appointment-service/pkg/logger"
)

var errUnknownMailType = errors.New("unknown mail type")

// envelope дублирует mailqueue.MailMessage, но оставляет Data сырым JSON,
// чтобы декодировать его в типизированную структуру по полю Type
type envelope struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
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

	log.Info("Starting appointment-service mail worker...")

	// Создаем SMTP клиент
	client, err := mail.NewClient(cfg.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.SMTP.Port),
		mail.WithUsername(cfg.SMTP.Username),
		mail.WithPassword(cfg.SMTP.Password),
	)
	if err != nil {
		log.Fatal("Failed to create SMTP client: %v", err)
	}
	defer client.Close()

	// Проверяем соединение с почтовым сервером
	dialCtx, cancelDial := context.WithTimeout(context.Background(), time.Duration(cfg.SMTP.DialTimeout)*time.Second)
	if err := client.DialWithContext(dialCtx); err != nil {
		cancelDial()
		log.Fatal("Failed to dial SMTP server: %v", err)
	}
	cancelDial()
	log.Info("Successfully connected to SMTP server (host=%s, port=%d)", cfg.SMTP.Host, cfg.SMTP.Port)

	// Подключаемся к RabbitMQ
	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open channel: %v", err)
	}
	defer ch.Close()

	// Объявляем очередь (идемпотентно, очередь создаёт и publisher)
	q, err := ch.QueueDeclare(cfg.RabbitMQ.MailQueue, true, false, false, false, nil)
	if err != nil {
		log.Fatal("Failed to declare queue: %v", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		log.Fatal("Failed to start consuming: %v", err)
	}
	log.Info("Consuming mail messages from queue %s", q.Name)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Error("Mail queue channel closed")
					return
				}
				handleMessage(client, cfg.SMTP.From, msg, log)
			}
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down mail worker...")
	cancel()
	wg.Wait()
	log.Info("Mail worker stopped gracefully")
}

func handleMessage(client *mail.Client, from string, msg amqp.Delivery, log *logger.Logger) {
	var env envelope
	if err := json.Unmarshal(msg.Body, &env); err != nil {
		log.Error("Failed to unmarshal mail message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	data, err := decodeData(env.Type, env.Data)
	if err != nil {
		log.Error("Failed to decode mail data: type=%s, error=%v", env.Type, err)
		_ = msg.Nack(false, false)
		return
	}

	body, err := renderBody(env.Type, data)
	if err != nil {
		log.Error("Failed to render mail body: type=%s, error=%v", env.Type, err)
		_ = msg.Nack(false, false)
		return
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		log.Error("Failed to set mail sender: %v", err)
		_ = msg.Nack(false, false)
		return
	}
	if err := m.To(env.To); err != nil {
		log.Error("Failed to set mail recipient: to=%s, error=%v", env.To, err)
		_ = msg.Nack(false, false)
		return
	}
	m.Subject(subjects[env.Type])
	m.SetBodyString(mail.TypeTextPlain, body)

	if err := client.DialAndSend(m); err != nil {
		log.Error("Failed to send mail: type=%s, to=%s, error=%v", env.Type, env.To, err)
		// Возвращаем в очередь для повторной попытки
		_ = msg.Nack(false, true)
		return
	}

	log.Info("Mail sent: type=%s, to=%s", env.Type, env.To)
	_ = msg.Ack(false)
}

func decodeData(mailType string, raw json.RawMessage) (interface{}, error) {
	switch mailType {
	case mailqueue.TypeEmailVerification:
		var data mailqueue.VerificationData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil

	case mailqueue.TypePasswordReset:
		var data mailqueue.PasswordResetData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil

	case mailqueue.TypeAppointmentConfirmationClient,
		mailqueue.TypeAppointmentNotificationOwner,
		mailqueue.TypeAppointmentCancellation,
		mailqueue.TypeAppointmentReminder:
		var data mailqueue.AppointmentMailData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil

	default:
		return nil, errUnknownMailType
	}
}
