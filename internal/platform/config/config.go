package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override, e.g. SOVEREIGN_HTTP_ADDR.
const EnvPrefix = "sovereign"

// DevSigningKey is used when no key is configured. Override it outside development.
const DevSigningKey = "dev-secret-key-change-in-production"

// Config is the daemon configuration. Values come from Default, then the
// YAML file, then the environment.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"       envconfig:"HTTP"`
	Storage    StorageConfig    `yaml:"storage"    envconfig:"STORAGE"`
	Events     EventsConfig     `yaml:"events"     envconfig:"EVENTS"`
	Log        LogConfig        `yaml:"log"        envconfig:"LOG"`
	Tracing    TracingConfig    `yaml:"tracing"    envconfig:"TRACING"`
	Protocol   ProtocolConfig   `yaml:"protocol"   envconfig:"PROTOCOL"`
	Simulation SimulationConfig `yaml:"simulation" envconfig:"SIMULATION"`
	RateLimit  RateLimitConfig  `yaml:"rateLimit"  envconfig:"RATE_LIMIT"`
}

// HTTPConfig captures HTTP server level configuration.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"            envconfig:"ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"  envconfig:"REQUEST_TIMEOUT"`
	JWTSigningKey   string        `yaml:"jwtSigningKey"   envconfig:"JWT_SIGNING_KEY"`
	JWTIssuer       string        `yaml:"jwtIssuer"       envconfig:"JWT_ISSUER"`
	JWTAudience     string        `yaml:"jwtAudience"     envconfig:"JWT_AUDIENCE"`
}

const (
	DriverMemory   = "memory"
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

type StorageConfig struct {
	Driver      string `yaml:"driver"      envconfig:"DRIVER"`
	BadgerDir   string `yaml:"badgerDir"   envconfig:"BADGER_DIR"`
	PostgresDSN string `yaml:"postgresDsn" envconfig:"POSTGRES_DSN"`
	// AutoMigrate applies pending postgres migrations on startup.
	AutoMigrate bool   `yaml:"autoMigrate" envconfig:"AUTO_MIGRATE"`
}

const (
	SinkLog   = "log"
	SinkKafka = "kafka"
	SinkRedis = "redis"
)

// EventsConfig selects where lifecycle events are published. Kafka and Redis
// sinks sit behind a circuit breaker that falls back to the log sink.
type EventsConfig struct {
	Sink            string        `yaml:"sink"            envconfig:"SINK"`
	Buffer          int           `yaml:"buffer"          envconfig:"BUFFER"`
	Brokers         []string      `yaml:"brokers"         envconfig:"BROKERS"`
	Topic           string        `yaml:"topic"           envconfig:"TOPIC"`
	Partitions      int32         `yaml:"partitions"      envconfig:"PARTITIONS"`
	Redis           RedisConfig   `yaml:"redis"           envconfig:"REDIS"`
	BreakerFailures int           `yaml:"breakerFailures" envconfig:"BREAKER_FAILURES"`
	BreakerCooldown time.Duration `yaml:"breakerCooldown" envconfig:"BREAKER_COOLDOWN"`
}

type RedisConfig struct {
	URL          string        `yaml:"url"          envconfig:"URL"`
	Stream       string        `yaml:"stream"       envconfig:"STREAM"`
	MaxLen       int64         `yaml:"maxLen"       envconfig:"MAX_LEN"`
	PoolSize     int           `yaml:"poolSize"     envconfig:"POOL_SIZE"`
	MinIdleConns int           `yaml:"minIdleConns" envconfig:"MIN_IDLE_CONNS"`
	DialTimeout  time.Duration `yaml:"dialTimeout"  envconfig:"DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `yaml:"readTimeout"  envconfig:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"WRITE_TIMEOUT"`
}

// RateLimitConfig caps authenticated requests per caller over a sliding
// window. The redis store shares windows across replicas.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"  envconfig:"ENABLED"`
	Requests int           `yaml:"requests" envconfig:"REQUESTS"`
	Window   time.Duration `yaml:"window"   envconfig:"WINDOW"`
	Store    string        `yaml:"store"    envconfig:"STORE"`
	Redis    RedisConfig   `yaml:"redis"    envconfig:"REDIS"`
}

const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

type LogConfig struct {
	Level  string `yaml:"level"  envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

type TracingConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED"`
}

// ProtocolConfig bootstraps the protocol singleton on first start. An empty
// authority leaves initialization to the admin API.
type ProtocolConfig struct {
	Authority     string `yaml:"authority"     envconfig:"AUTHORITY"`
	Treasury      string `yaml:"treasury"      envconfig:"TREASURY"`
	CurrencyToken string `yaml:"currencyToken" envconfig:"CURRENCY_TOKEN"`
}

// SimulationConfig seeds the in-process token service. Balances are minted
// in the currency token at startup, e.g. SOVEREIGN_SIMULATION_BALANCES=alice:1000.
type SimulationConfig struct {
	Balances map[string]uint64 `yaml:"balances" envconfig:"BALANCES"`
}

type contextKey struct{}

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(contextKey{}).(*Config)
	return cfg
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  30 * time.Second,
			JWTSigningKey:   DevSigningKey,
			JWTIssuer:       "sovereignd",
			JWTAudience:     "sovereign-api",
		},
		Storage: StorageConfig{Driver: DriverMemory},
		Events: EventsConfig{
			Sink:       SinkLog,
			Buffer:     1024,
			Topic:      "sovereign.events",
			Partitions: 1,
			Redis: RedisConfig{
				Stream:       "sovereign:events",
				MaxLen:       100_000,
				PoolSize:     10,
				MinIdleConns: 2,
				DialTimeout:  5 * time.Second,
				ReadTimeout:  3 * time.Second,
				WriteTimeout: 3 * time.Second,
			},
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Log:      LogConfig{Level: "info", Format: "text"},
		Protocol: ProtocolConfig{CurrencyToken: "USDC"},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 120,
			Window:   time.Minute,
			Store:    RateLimitStoreMemory,
			Redis: RedisConfig{
				PoolSize:     10,
				DialTimeout:  5 * time.Second,
				ReadTimeout:  time.Second,
				WriteTimeout: time.Second,
			},
		},
	}
}

// Load builds the configuration. A missing envFile is ignored; variables it
// sets never override ones already in the environment.
func Load(configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file: %w", err)
		}
	}

	cfg := Default()
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.HTTP.JWTSigningKey == "" {
		return errors.New("http.jwtSigningKey is required")
	}
	if c.HTTP.ShutdownTimeout <= 0 || c.HTTP.RequestTimeout <= 0 {
		return errors.New("http timeouts must be positive")
	}

	switch c.Storage.Driver {
	case DriverMemory, DriverBadger:
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgresDsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Events.Sink {
	case SinkLog:
	case SinkKafka:
		if len(c.Events.Brokers) == 0 || c.Events.Topic == "" {
			return errors.New("events.brokers and events.topic are required for the kafka sink")
		}
	case SinkRedis:
		if c.Events.Redis.URL == "" || c.Events.Redis.Stream == "" {
			return errors.New("events.redis.url and events.redis.stream are required for the redis sink")
		}
	default:
		return fmt.Errorf("unknown event sink %q", c.Events.Sink)
	}
	if c.Events.Buffer < 0 {
		return errors.New("events.buffer must not be negative")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
			return errors.New("rateLimit.requests and rateLimit.window must be positive")
		}
		switch c.RateLimit.Store {
		case RateLimitStoreMemory:
		case RateLimitStoreRedis:
			if c.RateLimit.Redis.URL == "" {
				return errors.New("rateLimit.redis.url is required for the redis store")
			}
		default:
			return fmt.Errorf("unknown rate limit store %q", c.RateLimit.Store)
		}
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if c.Protocol.Authority != "" && (c.Protocol.Treasury == "" || c.Protocol.CurrencyToken == "") {
		return errors.New("protocol.treasury and protocol.currencyToken are required with protocol.authority")
	}
	return nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", l.Level)
	}
	return level, nil
}

// UsingDevSigningKey reports whether tokens are signed with the built-in key.
func (c *Config) UsingDevSigningKey() bool {
	return c.HTTP.JWTSigningKey == DevSigningKey
}
