// config предоставляет структуру конфигурации news-reader
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы локального хранилища.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Виды удалённого источника.
const (
	RemoteNewsAPI = "newsapi"
	RemoteRSS     = "rss"
)

// appDir — каталог приложения внутри XDG data home.
const appDir = "news-reader"

// Config — корневая конфигурация приложения.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env          string             `yaml:"env" env:"ENV" env-default:"local"`
	HTTP         HTTPConfig         `yaml:"http"`
	GRPC         GRPCConfig         `yaml:"grpc"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Store        StoreConfig        `yaml:"store"`
	Remote       RemoteConfig       `yaml:"remote"`
	Reachability ReachabilityConfig `yaml:"reachability"`
	Limits       LimitsConfig       `yaml:"limits"`
	Refresh      RefreshConfig      `yaml:"refresh"`
	Timeouts     TimeoutConfig      `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки JSON API.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// GRPCConfig — сетевые настройки gRPC (health/reflection).
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50060"`
}

// MetricsConfig — служебный HTTP (/metrics, /livez, /healthz).
type MetricsConfig struct {
	Host string `yaml:"host" env:"METRICS_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"METRICS_PORT" env-default:"9090"`
}

// Addr возвращает адрес в формате host:port.
func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Addr возвращает адрес в формате host:port.
func (c GRPCConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Addr возвращает адрес в формате host:port.
func (c MetricsConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// StoreConfig — выбор и параметры локального хранилища.
type StoreConfig struct {
	Driver string `yaml:"driver" env:"STORE_DRIVER" env-default:"sqlite"`
	// Path — файл SQLite; пусто — $XDG_DATA_HOME/news-reader/articles.db.
	Path string `yaml:"path" env:"STORE_PATH"`
	// URL — DSN PostgreSQL.
	URL string `yaml:"url" env:"DATABASE_URL"`
	// RedisURL — например, redis://:pass@host:6379/0.
	RedisURL    string `yaml:"redis_url"    env:"REDIS_URL"`
	RedisPrefix string `yaml:"redis_prefix" env:"REDIS_PREFIX" env-default:"news:"`
}

// RemoteConfig — параметры удалённого источника статей.
type RemoteConfig struct {
	Kind    string `yaml:"kind"     env:"REMOTE_KIND"     env-default:"newsapi"`
	BaseURL string `yaml:"base_url" env:"NEWSAPI_BASE_URL" env-default:"https://newsapi.org/v2"`
	APIKey  string `yaml:"api_key"  env:"NEWSAPI_KEY"`
	Country string `yaml:"country"  env:"NEWSAPI_COUNTRY" env-default:"us"`
	// Feeds — RSS/Atom ленты для kind=rss. В ENV — через запятую.
	Feeds []string `yaml:"feeds" env:"RSS_FEEDS" env-separator:","`
	// Retries — число повторов при 5xx.
	Retries int `yaml:"retries" env:"REMOTE_RETRIES" env-default:"2"`
}

// ReachabilityConfig — явная проверка сетевой доступности.
type ReachabilityConfig struct {
	// ProbeAddr — host:port для TCP-пробы; пусто — хост из base_url.
	ProbeAddr   string        `yaml:"probe_addr"   env:"PROBE_ADDR"`
	TTL         time.Duration `yaml:"ttl"          env:"PROBE_TTL"          env-default:"5s"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"PROBE_DIAL_TIMEOUT" env-default:"2s"`
}

// LimitsConfig — ограничения на размер страницы.
type LimitsConfig struct {
	// Применяется при page_size <= 0.
	DefaultPageSize int `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE" env-default:"20"`
	// Верхняя граница для page_size (NewsAPI отдаёт не больше 100).
	MaxPageSize int `yaml:"max_page_size" env:"MAX_PAGE_SIZE" env-default:"100"`
}

// RefreshConfig — фоновый прогрев кэша в режиме serve; 0 отключает.
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval" env:"REFRESH_INTERVAL" env-default:"15m"`
}

// TimeoutConfig — таймауты.
type TimeoutConfig struct {
	// Service — дедлайн обработки входящего запроса.
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"35s"`
	// Request — таймаут HTTP-запроса к удалённому источнику.
	Request time.Duration `yaml:"request" env:"REQUEST_TIMEOUT" env-default:"30s"`
	// Persist — дедлайн фоновой записи пачки в хранилище.
	Persist time.Duration `yaml:"persist" env:"PERSIST_TIMEOUT" env-default:"10s"`
}

// StorePath возвращает путь к файлу SQLite, создавая каталог при необходимости.
func (c StoreConfig) StorePath() (string, error) {
	if c.Path != "" {
		if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
			return "", fmt.Errorf("config.StorePath: %w", err)
		}
		return c.Path, nil
	}

	p, err := xdg.DataFile(filepath.Join(appDir, "articles.db"))
	if err != nil {
		return "", fmt.Errorf("config.StorePath: %w", err)
	}

	return p, nil
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	var (
		c   *Config
		err error
	)

	switch {
	case path != "":
		c, err = readFile(path)
	case os.Getenv("CONFIG_PATH") != "":
		c, err = readFile(os.Getenv("CONFIG_PATH"))
	default:
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
				return nil, fmt.Errorf("failed to read local.yaml: %w", err)
			}
			c = &cfg
			break
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
		c = &cfg
	}

	if err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Store.URL == "" {
			errs = append(errs, errors.New("store.url is required for postgres driver"))
		}
	case DriverRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, errors.New("store.redis_url is required for redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be one of sqlite, postgres, redis: got %q", c.Store.Driver))
	}

	switch c.Remote.Kind {
	case RemoteNewsAPI:
		if c.Remote.BaseURL == "" {
			errs = append(errs, errors.New("remote.base_url is required for newsapi"))
		}
	case RemoteRSS:
		if len(c.Remote.Feeds) == 0 || slices.Contains(c.Remote.Feeds, "") {
			errs = append(errs, errors.New("remote.feeds must contain at least one feed url"))
		}
	default:
		errs = append(errs, fmt.Errorf("remote.kind must be newsapi or rss: got %q", c.Remote.Kind))
	}

	if c.Remote.Retries < 0 {
		errs = append(errs, errors.New("remote.retries must be >= 0"))
	}
	if c.Limits.DefaultPageSize <= 0 {
		errs = append(errs, errors.New("limits.default_page_size must be > 0"))
	}
	if c.Limits.MaxPageSize <= 0 {
		errs = append(errs, errors.New("limits.max_page_size must be > 0"))
	}
	if c.Limits.DefaultPageSize > c.Limits.MaxPageSize {
		errs = append(errs, errors.New("limits.default_page_size must be <= limits.max_page_size"))
	}
	if c.Refresh.Interval != 0 && c.Refresh.Interval < time.Minute {
		errs = append(errs, errors.New("refresh.interval must be 0 or at least 1m"))
	}

	return errors.Join(errs...)
}
