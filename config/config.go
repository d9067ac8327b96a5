package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/storearb/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del scanner.
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	Source  SourceConfig  `yaml:"source"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ScannerConfig controla la detección de oportunidades.
type ScannerConfig struct {
	CurrencyFilter   string  `yaml:"currency_filter"`     // CURRENCY_FILTER, obligatorio
	MinProfitPerItem float64 `yaml:"min_profit_per_item"` // MIN_PROFIT_PER_ITEM
	IntervalSeconds  int     `yaml:"interval_seconds"`    // 0 = un solo run
}

// SourceConfig describe de dónde se descarga el snapshot.
type SourceConfig struct {
	URL            string `yaml:"url"` // URL, obligatorio
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// StorageConfig controla dónde se persiste el set de oportunidades.
type StorageConfig struct {
	Backend string      `yaml:"backend"` // file | sqlite | redis
	Path    string      `yaml:"path"`    // backend file
	DSN     string      `yaml:"dsn"`     // backend sqlite: ruta al archivo, o ":memory:"
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig contiene la conexión del backend redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Defaults devuelve la configuración base antes de aplicar YAML y entorno.
func Defaults() Config {
	return Config{
		Scanner: ScannerConfig{MinProfitPerItem: 0.01},
		Source:  SourceConfig{TimeoutSeconds: 10},
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "profit_opportunities.json",
			DSN:     "storearb.db",
			Redis:   RedisConfig{Addr: "localhost:6379", Key: "storearb:opportunities"},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load construye la configuración: defaults → YAML (si path no está vacío) →
// .env si existe → variables de entorno. Las variables de entorno ganan.
// El resultado no está validado; llamar a Validate después.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	// Cargar .env si existe; no sobreescribe variables ya definidas
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: .env: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate comprueba los valores obligatorios.
func (c *Config) Validate() error {
	var problems []string
	if c.Source.URL == "" {
		problems = append(problems, "URL is required")
	}
	if c.Scanner.CurrencyFilter == "" {
		problems = append(problems, "CURRENCY_FILTER is required")
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendRedis:
	default:
		problems = append(problems, fmt.Sprintf("unknown storage backend %q", c.Storage.Backend))
	}
	if c.Scanner.IntervalSeconds < 0 {
		problems = append(problems, "interval_seconds must be >= 0")
	}
	if len(problems) > 0 {
		return fmt.Errorf("config.Validate: %w: %s", domain.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// FetchTimeout devuelve el timeout HTTP del fetch.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Source.TimeoutSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
// Un número mal formado es un error: mejor fallar que usar un umbral inesperado.
func applyEnvOverrides(cfg *Config) error {
	setStr(&cfg.Source.URL, "URL")
	setStr(&cfg.Scanner.CurrencyFilter, "CURRENCY_FILTER")
	setStr(&cfg.Storage.Backend, "SNAPSHOT_BACKEND")
	setStr(&cfg.Storage.Path, "SNAPSHOT_PATH")
	setStr(&cfg.Storage.DSN, "SNAPSHOT_DSN")
	setStr(&cfg.Storage.Redis.Addr, "REDIS_ADDR")
	setStr(&cfg.Storage.Redis.Password, "REDIS_PASSWORD")
	setStr(&cfg.Storage.Redis.Key, "REDIS_KEY")
	setStr(&cfg.Log.Level, "LOG_LEVEL")
	setStr(&cfg.Log.Format, "LOG_FORMAT")

	if err := setFloat(&cfg.Scanner.MinProfitPerItem, "MIN_PROFIT_PER_ITEM"); err != nil {
		return err
	}
	if err := setInt(&cfg.Scanner.IntervalSeconds, "SCAN_INTERVAL_SECONDS"); err != nil {
		return err
	}
	if err := setInt(&cfg.Source.TimeoutSeconds, "FETCH_TIMEOUT_SECONDS"); err != nil {
		return err
	}
	return setInt(&cfg.Storage.Redis.DB, "REDIS_DB")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config: %w: %s=%q is not a number", domain.ErrInvalidConfig, key, v)
	}
	*dst = f
	return nil
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %w: %s=%q is not an integer", domain.ErrInvalidConfig, key, v)
	}
	*dst = n
	return nil
}
