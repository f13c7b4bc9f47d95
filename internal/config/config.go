package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
)

// Config — конфигурация сервиса. Значения читаются из переменных
// окружения с префиксом SHOP_ и, если задан путь, из config-файла.
type Config struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	OpsAddr         string        `mapstructure:"ops_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Storage: "memory" или "postgres".
	Storage     string `mapstructure:"storage"`
	PostgresDSN string `mapstructure:"postgres_dsn"`

	// Carts: "memory" или "redis".
	CartStorage   string `mapstructure:"cart_storage"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	KafkaEnabled       bool          `mapstructure:"kafka_enabled"`
	KafkaBrokers       []string      `mapstructure:"kafka_brokers"`
	KafkaTopic         string        `mapstructure:"kafka_topic"`
	KafkaDLQTopic      string        `mapstructure:"kafka_dlq_topic"`
	OutboxPollInterval time.Duration `mapstructure:"outbox_poll_interval"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load читает конфигурацию. configFile может быть пустым — тогда
// используются только env-переменные и значения по умолчанию.
func Load(configFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("ops_addr", ":9090")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("storage", "memory")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("cart_storage", "memory")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("kafka_enabled", false)
	v.SetDefault("kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("kafka_topic", kafka.TopicOrderEvents)
	v.SetDefault("kafka_dlq_topic", kafka.TopicDeadLetterQueue)
	v.SetDefault("outbox_poll_interval", time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unsupported storage backend: %q", c.Storage)
	}
	if c.Storage == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("postgres storage requires SHOP_POSTGRES_DSN")
	}

	switch c.CartStorage {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported cart storage backend: %q", c.CartStorage)
	}

	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("kafka is enabled but no brokers configured")
	}

	return nil
}
