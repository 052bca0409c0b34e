package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/application/coordinator"

	"github.com/joho/godotenv"
)

type Config struct {
	TCPAddr  string
	HTTPPort string

	MaxOrdersPerCourier    int
	DefaultCourierCapacity float64

	StaleAfter    time.Duration
	SweepInterval time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	Retention     coordinator.Retention

	SeedPath     string
	SeedCouriers bool
	OutputPath   string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RabbitMQURL      string
	RabbitMQExchange string

	LogLevel slog.Level
}

// LoadConfig reads the environment, after loading envFile when it exists.
// Every malformed value is reported in the joined error.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	p := envParser{}
	cfg := Config{
		TCPAddr:  p.str("TCP_ADDR", ":8000"),
		HTTPPort: p.str("HTTP_PORT", "8080"),

		MaxOrdersPerCourier:    p.integer("MAX_ORDERS_PER_COURIER", 5),
		DefaultCourierCapacity: p.float("DEFAULT_COURIER_CAPACITY", 50),

		StaleAfter:    p.duration("STALE_AFTER", 300*time.Second),
		SweepInterval: p.duration("SWEEP_INTERVAL", 10*time.Second),
		WriteTimeout:  p.duration("WRITE_TIMEOUT", 5*time.Second),
		IdleTimeout:   p.duration("IDLE_TIMEOUT", 0),
		Retention:     p.retention("COURIER_RETENTION"),

		SeedPath:     p.str("SEED_PATH", "input_data.json"),
		SeedCouriers: p.boolean("SEED_COURIERS", false),
		OutputPath:   p.str("OUTPUT_PATH", "output_results.json"),

		DBHost:     p.str("DB_HOST", ""),
		DBPort:     p.str("DB_PORT", "5432"),
		DBUser:     p.str("DB_USER", ""),
		DBPassword: p.str("DB_PASSWORD", ""),
		DBName:     p.str("DB_NAME", ""),
		DBSslMode:  p.str("DB_SSLMODE", "disable"),

		RabbitMQURL:      p.str("RABBITMQ_URL", ""),
		RabbitMQExchange: p.str("RABBITMQ_EXCHANGE", "dispatch.status"),

		LogLevel: p.level("LOG_LEVEL"),
	}

	if cfg.MaxOrdersPerCourier <= 0 {
		p.fail("MAX_ORDERS_PER_COURIER", strconv.Itoa(cfg.MaxOrdersPerCourier), errors.New("must be positive"))
	}
	if cfg.DefaultCourierCapacity <= 0 {
		p.fail("DEFAULT_COURIER_CAPACITY", fmt.Sprint(cfg.DefaultCourierCapacity), errors.New("must be positive"))
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN is the PostgreSQL connection string; empty when DB_HOST is unset.
func (c Config) DSN() string {
	if c.DBHost == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

type envParser struct {
	errs []error
}

func (p *envParser) fail(key, value string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s=%q: %w", key, value, err))
}

func (p *envParser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (p *envParser) integer(key string, def int) int {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *envParser) float(key string, def float64) float64 {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *envParser) boolean(key string, def bool) bool {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return b
}

// duration accepts Go durations ("90s") and bare seconds ("300").
func (p *envParser) duration(key string, def time.Duration) time.Duration {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func (p *envParser) retention(key string) coordinator.Retention {
	v := p.str(key, "")
	r, err := coordinator.ParseRetention(v)
	if err != nil {
		p.fail(key, v, err)
	}
	return r
}

func (p *envParser) level(key string) slog.Level {
	v := p.str(key, "info")
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
		p.fail(key, v, err)
		return slog.LevelInfo
	}
	return level
}
