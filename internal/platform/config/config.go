// Package config loads the service configuration from an optional file and the environment.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"exercise_tracker/internal/platform/db"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig `mapstructure:"server"`
	Database db.Config    `mapstructure:"database"`
	Redis    RedisConfig  `mapstructure:"redis"`
	Cache    CacheConfig  `mapstructure:"cache"`
	Kafka    KafkaConfig  `mapstructure:"kafka"`
	Log      LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	StaticDir       string        `mapstructure:"static_dir"`
}

// RedisConfig configures the optional log cache backend. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL       time.Duration `mapstructure:"ttl"`
	Namespace string        `mapstructure:"namespace"`
}

// KafkaConfig configures the optional event publisher. No brokers disables it.
type KafkaConfig struct {
	Brokers        []string      `mapstructure:"brokers"`
	TopicUsers     string        `mapstructure:"topic_users"`
	TopicExercises string        `mapstructure:"topic_exercises"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config.yaml from path (if present) and applies environment overrides.
// Nested keys map to upper-case variables with underscores, e.g. database.driver -> DATABASE_DRIVER.
// PORT, when set, overrides the port of server.address.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	_ = v.BindEnv("server.port", "PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	// KAFKA_BROKERS=a:9092,b:9092
	cfg.Kafka.Brokers = splitList(strings.Join(cfg.Kafka.Brokers, ","))
	if cfg.Server.Port != "" {
		cfg.Server.Address = ":" + cfg.Server.Port
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.port", "")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.static_dir", "")

	v.SetDefault("database.driver", db.DriverSQLite)
	v.SetDefault("database.path", "exercise_tracker.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "exercise_tracker")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.connect_timeout", "60s")
	v.SetDefault("database.run_migrations", true)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.namespace", "exercises")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_users", "tracker.users")
	v.SetDefault("kafka.topic_exercises", "tracker.exercises")
	v.SetDefault("kafka.publish_timeout", "2s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
