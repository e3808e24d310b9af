// Package config предоставляет структуры и функции для загрузки конфигурации.
//
// Конфигурация читается из YAML‑файла (путь в CONFIG_PATH); любое поле
// можно переопределить переменной окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения запуска.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string          `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string          `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string          `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         RedisConnection `yaml:"redis_connection"`
	RabbitMQ                RabbitMQ        `yaml:"rabbitmq"`
	HTTPServer              HTTPServer      `yaml:"http_server"`
	Session                 Session         `yaml:"session"`
	Uploads                 Uploads         `yaml:"uploads"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	Address           string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":4000"`
	Timeout           time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	CORSAllowedOrigin string        `yaml:"cors_allowed_origin" env:"CORS_ALLOWED_ORIGIN" env-default:"http://localhost:5173"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	Address     string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user" env:"REDIS_USER"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries  int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
	PlaceTTL    time.Duration `yaml:"place_ttl" env:"REDIS_PLACE_TTL" env-default:"1h"`
}

// RabbitMQ структура для настройки брокера событий бронирований.
// Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"bookings"`
	Retries    int           `yaml:"retries" env:"RABBITMQ_RETRIES" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// Session структура для подписи сессионных токенов.
type Session struct {
	SecretKey    string        `yaml:"secret_key" env:"SESSION_SECRET" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"SESSION_TOKEN_TTL" env-default:"720h"`
	CookieSecure bool          `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`
	BcryptCost   int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// Uploads структура для локального хранилища фотографий.
type Uploads struct {
	Dir             string        `yaml:"dir" env:"UPLOADS_DIR" env-default:"./uploads"`
	MaxFiles        int           `yaml:"max_files" env:"UPLOADS_MAX_FILES" env-default:"10"`
	DownloadTimeout time.Duration `yaml:"download_timeout" env:"UPLOADS_DOWNLOAD_TIMEOUT" env-default:"10s"`
	MaxSize         int64         `yaml:"max_size" env:"UPLOADS_MAX_SIZE" env-default:"10485760"`
}

// ErrNoConfigPath возвращается, если CONFIG_PATH не задан.
var ErrNoConfigPath = errors.New("CONFIG_PATH is not set")

// Load читает конфиг из файла path и переменных окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if path == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoConfigPath)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: file %s: %w", op, path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Session.SecretKey == "" {
		return nil, fmt.Errorf("%s: session secret key is empty", op)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// String печатает конфиг без секретов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Address: %s\n"+
			"  Password: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"  Exchange: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  CORSAllowedOrigin: %s\n"+
			"Session:\n"+
			"  SecretKey: %s\n"+
			"  TokenTTL: %s\n"+
			"Uploads:\n"+
			"  Dir: %s\n",
		c.Env,
		mask(c.StorageConnectionString),
		c.MigrationsPath,
		c.RedisConnection.Address,
		mask(c.RedisConnection.Password),
		c.RedisConnection.DB,
		mask(c.RabbitMQ.URL),
		c.RabbitMQ.Exchange,
		c.HTTPServer.Address,
		c.HTTPServer.Timeout,
		c.HTTPServer.IdleTimeout,
		c.HTTPServer.CORSAllowedOrigin,
		mask(c.Session.SecretKey),
		c.Session.TokenTTL,
		c.Uploads.Dir,
	)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
