package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"studentForum/internal/platform/store"
)

var (
	ErrUnknownStoreDriver    = errors.New("unknown store driver")
	ErrUnknownOverflowPolicy = errors.New("unknown websocket overflow policy")
	ErrMissingJWTSecret      = errors.New("JWT_SECRET is required")
)

type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Security  SecurityConfig
	Store     StoreConfig
	Websocket WebsocketConfig
	Kafka     KafkaConfig
	Assistant AssistantConfig
	Seed      SeedConfig
}

type ServerConfig struct {
	Port        string `envconfig:"PORT" default:"5000"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
}

type LoggingConfig struct {
	Directory string `envconfig:"LOG_DIR" default:"./logs"`
	Level     string `envconfig:"LOG_LEVEL" default:"info"`
	Format    string `envconfig:"LOG_FORMAT" default:"text"`
}

type SecurityConfig struct {
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

type StoreConfig struct {
	Driver        string `envconfig:"STORE_DRIVER" default:"badger"`
	BadgerPath    string `envconfig:"BADGER_PATH" default:"./data"`
	MongoURI      string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017/student-forum"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"student-forum"`
}

func (c StoreConfig) Options() store.Options {
	return store.Options{
		Driver:        c.Driver,
		BadgerPath:    c.BadgerPath,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
	}
}

type WebsocketConfig struct {
	SendBuffer     int           `envconfig:"WS_SEND_BUFFER" default:"32"`
	OverflowPolicy string        `envconfig:"WS_OVERFLOW_POLICY" default:"disconnect"`
	StrictTopics   bool          `envconfig:"WS_STRICT_TOPICS" default:"false"`
	RequireAuth    bool          `envconfig:"WS_REQUIRE_AUTH" default:"false"`
	RateLimit      int           `envconfig:"WS_RATE_LIMIT" default:"20"`
	RateInterval   time.Duration `envconfig:"WS_RATE_INTERVAL" default:"1s"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	GroupID string   `envconfig:"KAFKA_GROUP_ID" default:"student-forum-realtime"`
	Topics  []string `envconfig:"KAFKA_TOPICS" default:"forum.mutations"`

	// AllowedKinds restricts relayed mutation kinds; empty relays every routable kind.
	AllowedKinds []string `envconfig:"KAFKA_ALLOWED_KINDS"`
}

type AssistantConfig struct {
	BaseURL string        `envconfig:"ASSISTANT_BASE_URL"`
	Timeout time.Duration `envconfig:"ASSISTANT_TIMEOUT" default:"15s"`
}

type SeedConfig struct {
	File string `envconfig:"SEED_FILE"`
}

// Load reads the process environment. Each field is looked up by its prefixed
// name first (SERVER_PORT) and then by its plain name (PORT).
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.Kafka.Brokers = cleanList(cfg.Kafka.Brokers)
	cfg.Kafka.Topics = cleanList(cfg.Kafka.Topics)
	cfg.Kafka.AllowedKinds = cleanList(cfg.Kafka.AllowedKinds)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Store.Driver)) {
	case "badger", "mongo":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.Store.Driver)
	}
	switch strings.ToLower(strings.TrimSpace(c.Websocket.OverflowPolicy)) {
	case "", "disconnect", "drop-oldest", "drop_oldest", "dropoldest":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOverflowPolicy, c.Websocket.OverflowPolicy)
	}
	if strings.TrimSpace(c.Security.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
