// Ininicializing common application configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DefaultJWTSecret = "change-me-in-production"

	// DemoAdminPasswordHash is the bcrypt hash of "tourbooker" shipped in config.yaml.
	DemoAdminPasswordHash = "$2b$10$L22No2TSVwRxYS0fz081HOyZXlE0y9CYK0JgI3LFAfOrTdxdmWPSm"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	App      AppConfig      `mapstructure:"app"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

type ServerConfig struct {
	AppVersion   string        `mapstructure:"appVersion"`
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Idle_timeout time.Duration `mapstructure:"idle_timeout"`
	Env          string        `mapstructure:"environment"`
	Mode         string        `mapstructure:"mode"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

type AppConfig struct {
	LogLevel       string        `mapstructure:"log_level"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ReminderBefore time.Duration `mapstructure:"reminder_before"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AdminConfig holds the single operator account allowed to manage the catalog.
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type TelegramConfig struct {
	BotToken string        `mapstructure:"bot_token"`
	ChatID   string        `mapstructure:"chat_id"`
	Enabled  bool          `mapstructure:"enabled"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type WorkerConfig struct {
	DepartureInterval time.Duration `mapstructure:"departure_interval"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// Настройки пула соединений
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

type QueueConfig struct {
	Prefix     string        `mapstructure:"prefix"`
	MaxRetries int           `mapstructure:"max_retries"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
	EnableDLQ  bool          `mapstructure:"enable_dlq"`
}

// CatalogConfig is the demo inventory loaded at startup.
type CatalogConfig struct {
	Customers []CustomerSeed `mapstructure:"customers"`
	Tours     []TourSeed     `mapstructure:"tours"`
	Schedules []ScheduleSeed `mapstructure:"schedules"`
}

type CustomerSeed struct {
	Passport    string `mapstructure:"passport"`
	Name        string `mapstructure:"name"`
	DateOfBirth string `mapstructure:"date_of_birth"`
	Contact     string `mapstructure:"contact"`
}

type TourSeed struct {
	Code     string  `mapstructure:"code"`
	Name     string  `mapstructure:"name"`
	Days     int     `mapstructure:"days"`
	Nights   int     `mapstructure:"nights"`
	BaseCost float64 `mapstructure:"base_cost"`
}

type ScheduleSeed struct {
	TourCode     string `mapstructure:"tour_code"`
	ScheduleCode string `mapstructure:"schedule_code"`
	Departure    string `mapstructure:"departure"`
	Language     string `mapstructure:"language"`
	Capacity     int    `mapstructure:"capacity"`
	Peak         bool   `mapstructure:"peak"`
}

func LoadConfig() (*viper.Viper, error) {
	// .env необязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Cannot read .env file: %v", err)
	}

	viperInstance := viper.New()

	viperInstance.AddConfigPath(GetEnv("CONFIG_PATH", "./config"))
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	if err := viperInstance.ReadInConfig(); err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := c.validateSecrets(); err != nil {
		return nil, err
	}
	return &c, nil
}

// validateSecrets не дает запустить production с демонстрационными секретами
func (c *Config) validateSecrets() error {
	if !c.IsProduction() {
		return nil
	}
	if strings.TrimSpace(c.JWT.Secret) == "" || c.JWT.Secret == DefaultJWTSecret {
		return errors.New("jwt.secret must be set to a non-default value in production")
	}
	if c.Admin.PasswordHash == "" || c.Admin.PasswordHash == DemoAdminPasswordHash {
		return errors.New("admin.password_hash must be replaced in production")
	}
	return nil
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.appVersion", "1.0.0")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors_origins", []string{"*"})

	// App defaults
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.request_timeout", 10*time.Second)
	v.SetDefault("app.reminder_before", 48*time.Hour)

	// JWT defaults
	v.SetDefault("jwt.secret", DefaultJWTSecret)
	v.SetDefault("jwt.expiration", 12*time.Hour)

	// Admin defaults
	v.SetDefault("admin.username", "operator")
	v.SetDefault("admin.password_hash", "")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.timeout", 10*time.Second)

	// Worker defaults
	v.SetDefault("worker.departure_interval", time.Minute)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.pool_timeout", 4*time.Second)

	// Queue defaults
	v.SetDefault("queue.prefix", "tour_booking")
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.base_delay", 5*time.Second)
	v.SetDefault("queue.enable_dlq", true)
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetServerAddress возвращает полный адрес сервера
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsProduction проверяет, production ли окружение
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// QueueEnabled reports whether a redis endpoint is configured.
func (c *Config) QueueEnabled() bool {
	return c.Redis.URL != ""
}

// Addr returns the redis address, preferring the explicit url.
func (c *RedisConfig) Addr() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
