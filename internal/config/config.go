package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из TOML файла
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	JWT      JWTConfig      `toml:"jwt"`
	SMTP     SMTPConfig     `toml:"smtp"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
	Redis    RedisConfig    `toml:"redis"`
	Tokens   TokensConfig   `toml:"tokens"`
	Reminder ReminderConfig `toml:"reminder"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// JWTConfig настройки выпуска и проверки токенов доступа
type JWTConfig struct {
	Secret          string `toml:"secret"`
	ExpirationHours int    `toml:"expiration_hours"`
}

// SMTPConfig настройки отправки почты (используется mailworker)
type SMTPConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	From        string `toml:"from"`
	DialTimeout int    `toml:"dial_timeout"`
}

// RabbitMQConfig настройки очереди почтовых сообщений
type RabbitMQConfig struct {
	URL            string `toml:"url"`
	MailQueue      string `toml:"mail_queue"`
	PublishTimeout int    `toml:"publish_timeout"`
}

// RedisConfig настройки Redis (хранилище одноразовых токенов)
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// TokensConfig время жизни одноразовых токенов
type TokensConfig struct {
	VerificationTTLHours    int `toml:"verification_ttl_hours"`
	PasswordResetTTLMinutes int `toml:"password_reset_ttl_minutes"`
}

// ReminderConfig настройки воркера напоминаний
type ReminderConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
	LeadMinutes     int `toml:"lead_minutes"`
}

// Load загружает конфигурацию из TOML файла и применяет значения по умолчанию
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointment-service"
	}
	if c.JWT.ExpirationHours == 0 {
		c.JWT.ExpirationHours = 24
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 465
	}
	if c.SMTP.DialTimeout == 0 {
		c.SMTP.DialTimeout = 10
	}
	if c.RabbitMQ.MailQueue == "" {
		c.RabbitMQ.MailQueue = "mail"
	}
	if c.RabbitMQ.PublishTimeout == 0 {
		c.RabbitMQ.PublishTimeout = 10
	}
	if c.Tokens.VerificationTTLHours == 0 {
		c.Tokens.VerificationTTLHours = 24
	}
	if c.Tokens.PasswordResetTTLMinutes == 0 {
		c.Tokens.PasswordResetTTLMinutes = 15
	}
	if c.Reminder.IntervalSeconds == 0 {
		c.Reminder.IntervalSeconds = 60
	}
	if c.Reminder.LeadMinutes == 0 {
		c.Reminder.LeadMinutes = 60
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	return nil
}
