package config

import (
	"fmt"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"rank-service/internal/utils/runtime"
	"strings"
)

const (
	storageBackendFlag       = "storage-backend"
	mongoDBURIFlag           = "mongodb-uri"
	sqlitePathFlag           = "sqlite-path"
	postgresDSNFlag          = "postgres-dsn"
	notifierFlag             = "notifier"
	kafkaHostFlag            = "kafka-host"
	kafkaPortFlag            = "kafka-port"
	rabbitMQHostFlag         = "rabbitmq-host"
	rabbitMQUsernameFlag     = "rabbitmq-username"
	rabbitMQPasswordFlag     = "rabbitmq-password"
	developmentFlag          = "development"
	grpcPortFlag             = "port"
	metricsPortFlag          = "metrics-port"
	chatFormatFlag           = "chat-format"
	placeholderCacheSizeFlag = "placeholder-cache-size"
)

const (
	StorageMongoDB  = "mongodb"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	NotifierKafka    = "kafka"
	NotifierRabbitMQ = "rabbitmq"
)

// DefaultChatFormat mirrors the layout players are used to. {message} is
// filled in by the host after rendering.
const DefaultChatFormat = "{highestRank} {selectedTag} {displayTags} {displayName} {chatColor} {message}"

type Config struct {
	Storage  StorageConfig
	Notifier NotifierConfig
	Chat     ChatConfig

	Development bool

	GRPCPort    int
	MetricsPort int
}

type StorageConfig struct {
	Backend string

	MongoDB  MongoDBConfig
	SQLite   SQLiteConfig
	Postgres PostgresConfig
}

type MongoDBConfig struct {
	URI string
}

type SQLiteConfig struct {
	Path string
}

type PostgresConfig struct {
	DSN string
}

type NotifierConfig struct {
	Backend string

	Kafka    KafkaConfig
	RabbitMQ RabbitMQConfig
}

type KafkaConfig struct {
	Host string
	Port int
}

type RabbitMQConfig struct {
	Host     string
	Username string
	Password string
}

type ChatConfig struct {
	Format               string
	PlaceholderCacheSize int
}

func LoadGlobalConfig() (*Config, error) {
	viper.SetDefault(storageBackendFlag, StorageMongoDB)
	viper.SetDefault(mongoDBURIFlag, "mongodb://localhost:27017")
	viper.SetDefault(sqlitePathFlag, "data/ranks.sqlite")
	viper.SetDefault(postgresDSNFlag, "")
	viper.SetDefault(notifierFlag, NotifierKafka)
	viper.SetDefault(kafkaHostFlag, "localhost")
	viper.SetDefault(kafkaPortFlag, 9092)
	viper.SetDefault(rabbitMQHostFlag, "localhost")
	viper.SetDefault(rabbitMQUsernameFlag, "guest")
	viper.SetDefault(rabbitMQPasswordFlag, "guest")
	viper.SetDefault(developmentFlag, true)
	viper.SetDefault(grpcPortFlag, 10010)
	viper.SetDefault(metricsPortFlag, 8081)
	viper.SetDefault(chatFormatFlag, DefaultChatFormat)
	viper.SetDefault(placeholderCacheSizeFlag, 4096)

	pflag.String(storageBackendFlag, viper.GetString(storageBackendFlag), "Storage backend (mongodb, sqlite, postgres)")
	pflag.String(mongoDBURIFlag, viper.GetString(mongoDBURIFlag), "MongoDB URI")
	pflag.String(sqlitePathFlag, viper.GetString(sqlitePathFlag), "SQLite database file")
	pflag.String(postgresDSNFlag, viper.GetString(postgresDSNFlag), "PostgreSQL DSN")
	pflag.String(notifierFlag, viper.GetString(notifierFlag), "Change notifier (kafka, rabbitmq)")
	pflag.String(kafkaHostFlag, viper.GetString(kafkaHostFlag), "Kafka host")
	pflag.Int32(kafkaPortFlag, viper.GetInt32(kafkaPortFlag), "Kafka port")
	pflag.String(rabbitMQHostFlag, viper.GetString(rabbitMQHostFlag), "RabbitMQ host")
	pflag.String(rabbitMQUsernameFlag, viper.GetString(rabbitMQUsernameFlag), "RabbitMQ username")
	pflag.String(rabbitMQPasswordFlag, viper.GetString(rabbitMQPasswordFlag), "RabbitMQ password")
	pflag.Bool(developmentFlag, viper.GetBool(developmentFlag), "Development mode")
	pflag.Int32(grpcPortFlag, viper.GetInt32(grpcPortFlag), "gRPC port")
	pflag.Int32(metricsPortFlag, viper.GetInt32(metricsPortFlag), "Prometheus metrics port")
	pflag.String(chatFormatFlag, viper.GetString(chatFormatFlag), "Chat message format")
	pflag.Int32(placeholderCacheSizeFlag, viper.GetInt32(placeholderCacheSizeFlag), "Maximum cached placeholder renders")
	pflag.Parse()

	runtime.Must(viper.BindPFlags(pflag.CommandLine))

	// Bind the viper flags to environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range []string{
		storageBackendFlag, mongoDBURIFlag, sqlitePathFlag, postgresDSNFlag,
		notifierFlag, kafkaHostFlag, kafkaPortFlag,
		rabbitMQHostFlag, rabbitMQUsernameFlag, rabbitMQPasswordFlag,
		developmentFlag, grpcPortFlag, metricsPortFlag,
		chatFormatFlag, placeholderCacheSizeFlag,
	} {
		runtime.Must(viper.BindEnv(key))
	}

	cfg := &Config{
		Storage: StorageConfig{
			Backend: viper.GetString(storageBackendFlag),
			MongoDB: MongoDBConfig{
				URI: viper.GetString(mongoDBURIFlag),
			},
			SQLite: SQLiteConfig{
				Path: viper.GetString(sqlitePathFlag),
			},
			Postgres: PostgresConfig{
				DSN: viper.GetString(postgresDSNFlag),
			},
		},
		Notifier: NotifierConfig{
			Backend: viper.GetString(notifierFlag),
			Kafka: KafkaConfig{
				Host: viper.GetString(kafkaHostFlag),
				Port: int(viper.GetInt32(kafkaPortFlag)),
			},
			RabbitMQ: RabbitMQConfig{
				Host:     viper.GetString(rabbitMQHostFlag),
				Username: viper.GetString(rabbitMQUsernameFlag),
				Password: viper.GetString(rabbitMQPasswordFlag),
			},
		},
		Chat: ChatConfig{
			Format:               viper.GetString(chatFormatFlag),
			PlaceholderCacheSize: int(viper.GetInt32(placeholderCacheSizeFlag)),
		},
		Development: viper.GetBool(developmentFlag),
		GRPCPort:    int(viper.GetInt32(grpcPortFlag)),
		MetricsPort: int(viper.GetInt32(metricsPortFlag)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageMongoDB, StorageSQLite, StoragePostgres:
	default:
		return fmt.Errorf("unsupported %s %q", storageBackendFlag, c.Storage.Backend)
	}

	switch c.Notifier.Backend {
	case NotifierKafka, NotifierRabbitMQ:
	default:
		return fmt.Errorf("unsupported %s %q", notifierFlag, c.Notifier.Backend)
	}

	if c.Storage.Backend == StoragePostgres && c.Storage.Postgres.DSN == "" {
		return fmt.Errorf("%s is required for the %s backend", postgresDSNFlag, StoragePostgres)
	}
	if !strings.Contains(c.Chat.Format, "{message}") {
		return fmt.Errorf("%s must contain {message}", chatFormatFlag)
	}
	if c.Chat.PlaceholderCacheSize <= 0 {
		return fmt.Errorf("%s must be positive", placeholderCacheSizeFlag)
	}
	return nil
}
