// Package config предоставялет структуры и функции для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	Storage         `yaml:"storage"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
	Password        `yaml:"password"`
	Clients         `yaml:"clients"`
	RabbitMQ        `yaml:"rabbitmq"`
	Scheduler       `yaml:"scheduler"`
}

// Storage структура для выбора и настройки хранилища записей
type Storage struct {
	Driver                  string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"bolt"` // bolt, redis, postgres или memory
	BoltPath                string        `yaml:"bolt_path" env-default:"./data/techvogue.db"`
	BoltBucket              string        `yaml:"bolt_bucket" env-default:"records"`
	BoltLockTimeout         time.Duration `yaml:"bolt_lock_timeout" env-default:"1s"`
	StorageConnectionString string        `yaml:"storage_connection_string" env:"STORAGE_DSN"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP    string        `yaml:"addresshttp" env-default:"127.0.0.1:8080"`
	TimeoutHTTP    time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps" env-default:"5"`
	RateLimitBurst int           `yaml:"rate_limit_burst" env-default:"10"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	KeyPrefix    string        `yaml:"key_prefix" env-default:"techvogue:"`
}

// JWTToken структура для работы с jwt-токеном сессии
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Password структура с параметрами хэширования паролей
type Password struct {
	BcryptCost int `yaml:"bcrypt_cost" env-default:"10"`
}

// Clients структура с адресами внешних сервисов
type Clients struct {
	VerificationURL string        `yaml:"verification_url" env-default:"http://localhost:5000"`
	ProfileURL      string        `yaml:"profile_url" env-default:"http://localhost:5000"`
	Timeout         time.Duration `yaml:"timeout" env-default:"10s"`
}

// RabbitMQ структура для подключения к брокеру сообщений
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env-default:"notifications"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Scheduler структура для планировщика уведомлений об истечении подписок
type Scheduler struct {
	Spec   string        `yaml:"spec" env-default:"0 9 * * *"`
	Window time.Duration `yaml:"window" env-default:"24h"`
}

// Load читает конфиг по указанному пути.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Driver {
	case "bolt", "redis", "memory":
	case "postgres":
		if c.StorageConnectionString == "" {
			return fmt.Errorf("storage_connection_string is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("jwt_secret_key is required")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  BoltPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Clients:\n"+
			"  VerificationURL: %s\n"+
			"  ProfileURL: %s\n"+
			"  Timeout: %s\n",
		c.Env,
		c.Driver,
		c.BoltPath,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.VerificationURL,
		c.ProfileURL,
		c.Clients.Timeout,
	)
}
