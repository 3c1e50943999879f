package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultHTTPPort         = "8080"
	defaultHTTPMode         = "release"
	defaultDriver           = DriverSQLite
	defaultSQLitePath       = "catalog.db"
	defaultAttemptsRetry    = 2000
	defaultLogValue         = true
	defaultMaxConn          = "10"
	defaultOutboxWorkers    = 1
	defaultOutboxDelivery   = 4
	defaultOutboxBatchSize  = 100
	defaultOutboxWaitMS     = 1000
	defaultOutboxInProgress = 10000
)

var (
	ErrUnknownDriver  = errors.New("unknown store driver")
	ErrOutboxNoDriver = errors.New("outbox requires the postgres store")
)

type (
	Config struct {
		HTTP struct {
			Port string `env:"HTTP_PORT"`
			Mode string `env:"GIN_MODE"`
		}

		Store struct {
			Driver     string `env:"STORE_DRIVER"`
			SQLitePath string `env:"SQLITE_PATH"`
		}

		PG struct {
			URL      string
			Host     string `env:"POSTGRES_HOST"`
			Port     string `env:"POSTGRES_PORT"`
			DB       string `env:"POSTGRES_DB"`
			User     string `env:"POSTGRES_USER"`
			Password string `env:"POSTGRES_PASSWORD"`
			MaxConn  string `env:"POSTGRES_MAX_CONN"`
		}

		Outbox struct {
			Enabled         bool          `env:"OUTBOX_ENABLED"`
			Workers         int           `env:"OUTBOX_WORKERS"`
			DeliveryWorkers int           `env:"OUTBOX_DELIVERY_WORKERS"`
			BatchSize       int           `env:"OUTBOX_BATCH_SIZE"`
			WaitTimeMS      time.Duration `env:"OUTBOX_WAIT_TIME_MS"`
			InProgressTTLMS time.Duration `env:"OUTBOX_IN_PROGRESS_TTL_MS"`
			AuthorSendURL   string        `env:"OUTBOX_AUTHOR_SEND_URL"`
			BookSendURL     string        `env:"OUTBOX_BOOK_SEND_URL"`
			AttemptsRetry   int           `env:"OUTBOX_ATTEMPTS_RETRY"`
		}

		Log struct {
			File            string `env:"LOG_FILE"`
			LogController   bool   `env:"LOG_CONTROLLER_ENABLED"`
			LogTransactor   bool   `env:"LOG_TRANSACTOR_ENABLED"`
			LogUseCase      bool   `env:"LOG_USECASE_ENABLED"`
			LogDBRepo       bool   `env:"LOG_DB_REPO_ENABLED"`
			LogOutboxWorker bool   `env:"LOG_OUTBOX_WORKER_ENABLED"`
		}

		Observability struct {
			MetricsPort string `env:"METRICS_PORT"`
			JaegerURL   string `env:"JAEGER_URL"`
		}
	}
)

// NewConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// in the environment win.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("can not load .env file: %w", err)
	}

	return fromEnv(viper.New())
}

func fromEnv(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	var err error
	if cfg.HTTP.Port, err = parseEnvString(v, "http_port", "HTTP_PORT", defaultHTTPPort); err != nil {
		return nil, err
	}
	if cfg.HTTP.Mode, err = parseEnvString(v, "http_mode", "GIN_MODE", defaultHTTPMode); err != nil {
		return nil, err
	}

	if cfg.Store.Driver, err = parseEnvString(v, "store_driver", "STORE_DRIVER", defaultDriver); err != nil {
		return nil, err
	}
	if cfg.Store.Driver != DriverPostgres && cfg.Store.Driver != DriverSQLite {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Store.Driver)
	}
	if cfg.Store.SQLitePath, err = parseEnvString(v, "sqlite_path", "SQLITE_PATH", defaultSQLitePath); err != nil {
		return nil, err
	}

	cfg.PG.Host = os.Getenv("POSTGRES_HOST")
	cfg.PG.Port = os.Getenv("POSTGRES_PORT")
	cfg.PG.DB = os.Getenv("POSTGRES_DB")
	cfg.PG.User = os.Getenv("POSTGRES_USER")
	cfg.PG.Password = os.Getenv("POSTGRES_PASSWORD")

	if cfg.PG.MaxConn, err = parseEnvString(v, "db_MaxCon", "POSTGRES_MAX_CONN", defaultMaxConn); err != nil {
		return nil, err
	}

	cfg.PG.URL = fmt.Sprintf("postgres://%s:%s@", cfg.PG.User, cfg.PG.Password) +
		net.JoinHostPort(cfg.PG.Host, cfg.PG.Port) + fmt.Sprintf("/%s?sslmode=disable", cfg.PG.DB) + fmt.Sprintf("&pool_max_conns=%s", cfg.PG.MaxConn)

	if cfg.Outbox.Enabled, err = parseEnvBool(v, "outbox", "OUTBOX_ENABLED", false); err != nil {
		return nil, err
	}

	if cfg.Outbox.Enabled {
		if cfg.Store.Driver != DriverPostgres {
			return nil, ErrOutboxNoDriver
		}

		if cfg.Outbox.Workers, err = parseEnvInt(v, "outbox_workers", "OUTBOX_WORKERS", defaultOutboxWorkers); err != nil {
			return nil, err
		}

		if cfg.Outbox.DeliveryWorkers, err = parseEnvInt(v, "outbox_delivery", "OUTBOX_DELIVERY_WORKERS", defaultOutboxDelivery); err != nil {
			return nil, err
		}

		if cfg.Outbox.BatchSize, err = parseEnvInt(v, "outbox_batch", "OUTBOX_BATCH_SIZE", defaultOutboxBatchSize); err != nil {
			return nil, err
		}

		if cfg.Outbox.WaitTimeMS, err = parseEnvMillis(v, "outbox_wait", "OUTBOX_WAIT_TIME_MS", defaultOutboxWaitMS); err != nil {
			return nil, err
		}

		if cfg.Outbox.InProgressTTLMS, err = parseEnvMillis(v, "outbox_ttl", "OUTBOX_IN_PROGRESS_TTL_MS", defaultOutboxInProgress); err != nil {
			return nil, err
		}

		cfg.Outbox.AuthorSendURL = os.Getenv("OUTBOX_AUTHOR_SEND_URL")
		cfg.Outbox.BookSendURL = os.Getenv("OUTBOX_BOOK_SEND_URL")

		if cfg.Outbox.AttemptsRetry, err = parseEnvInt(v, "attempts", "OUTBOX_ATTEMPTS_RETRY", defaultAttemptsRetry); err != nil {
			return nil, err
		}
	}

	cfg.Log.File = os.Getenv("LOG_FILE")

	if cfg.Log.LogController, err = parseEnvBool(v, "log_controller", "LOG_CONTROLLER_ENABLED", defaultLogValue); err != nil {
		return nil, err
	}

	if cfg.Log.LogTransactor, err = parseEnvBool(v, "log_transactor", "LOG_TRANSACTOR_ENABLED", defaultLogValue); err != nil {
		return nil, err
	}

	if cfg.Log.LogUseCase, err = parseEnvBool(v, "log_usecase", "LOG_USECASE_ENABLED", defaultLogValue); err != nil {
		return nil, err
	}

	if cfg.Log.LogDBRepo, err = parseEnvBool(v, "log_db", "LOG_DB_REPO_ENABLED", defaultLogValue); err != nil {
		return nil, err
	}

	if cfg.Log.LogOutboxWorker, err = parseEnvBool(v, "log_outbox_worker", "LOG_OUTBOX_WORKER_ENABLED", defaultLogValue); err != nil {
		return nil, err
	}

	cfg.Observability.MetricsPort = os.Getenv("METRICS_PORT")
	cfg.Observability.JaegerURL = os.Getenv("JAEGER_URL")

	return cfg, nil
}

func parseEnvMillis(v *viper.Viper, key, envVar string, defaultValue int) (time.Duration, error) {
	ms, err := parseEnvInt(v, key, envVar, defaultValue)
	if err != nil {
		return time.Duration(0), err
	}

	return time.Duration(ms) * time.Millisecond, nil
}

func parseEnvBool(v *viper.Viper, key, envVar string, defaultValue ...bool) (bool, error) {
	err := v.BindEnv(key, envVar)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0], err
		}
		return false, err
	}
	if len(defaultValue) > 0 {
		v.SetDefault(key, defaultValue[0])
	}
	return v.GetBool(key), nil
}

func parseEnvInt(v *viper.Viper, key, envVar string, defaultValue ...int) (int, error) {
	err := v.BindEnv(key, envVar)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0], err
		}
		return 0, err
	}
	if len(defaultValue) > 0 {
		v.SetDefault(key, defaultValue[0])
	}
	return v.GetInt(key), nil
}

func parseEnvString(v *viper.Viper, key, envVar string, defaultValue ...string) (string, error) {
	err := v.BindEnv(key, envVar)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0], err
		}
		return "", err
	}
	if len(defaultValue) > 0 {
		v.SetDefault(key, defaultValue[0])
	}
	return v.GetString(key), nil
}
