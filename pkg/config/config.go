package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // .env file is optional

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return nil
}

// Config holds the configuration for the engine process.
type Config struct {
	// Markets is the set of order books the engine serves, as BASE_QUOTE tickers.
	Markets []string `env:"MARKETS" envDefault:"TATA_INR"`
	// BaseCurrency is the asset credited by deposits.
	BaseCurrency string `env:"BASE_CURRENCY" envDefault:"INR"`

	IngressConfig `envPrefix:"INGRESS_"`
	KafkaConfig   `envPrefix:"KAFKA_"`
	RedisConfig   `envPrefix:"REDIS_"`

	SnapshotKey      string        `env:"SNAPSHOT_KEY" envDefault:"engine:snapshot"`
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"3s"`
}

// IngressConfig holds the configuration for the command ingress queue.
type IngressConfig struct {
	// Queue is the Redis list API processes push command envelopes onto.
	Queue string `env:"QUEUE" envDefault:"messages"`
	// ReplyPrefix is prepended to the client id to form the reply list key.
	ReplyPrefix string `env:"REPLY_PREFIX" envDefault:"api:"`
	// PopTimeout bounds a single blocking dequeue so the loop can observe
	// the snapshot ticker and shutdown between commands.
	PopTimeout time.Duration `env:"POP_TIMEOUT" envDefault:"1s"`
}

// KafkaConfig holds the configuration for the persistence queue producer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC" envDefault:"db_processor"`
	Brokers []string `env:"BROKER" envDefault:"localhost:9092"`
}

// RedisConfig holds the configuration for the Redis client.
type RedisConfig struct {
	Addrs    string `env:"ADDRESS" envDefault:"localhost:6379"` // Comma-separated list of Redis addresses
	Password string `env:"PASSWORD" envDefault:""`
	Username string `env:"USERNAME" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}
