package lib

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Social     SocialConfig
	Reconciler ReconcilerConfig
	Cors       CorsConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MongoConfig struct {
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	// AdminIDs lists the user ids allowed on /api/v1/admin. Empty closes it.
	AdminIDs []string `mapstructure:"admin_ids"`
}

// SocialConfig bounds the optimistic retry around every relationship write.
type SocialConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
}

type ReconcilerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type CorsConfig struct {
	AllowOrigins string `mapstructure:"allow_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// LoadConfig reads config.yaml from ".", "./config" or configPath when present,
// then applies environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetDefault("server.port", 3000)
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "socialfeed")
	v.SetDefault("mongo.timeout", "10s")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")
	v.SetDefault("auth.jwt_secret", "fallback-secret-key")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.admin_ids", []string{})
	v.SetDefault("social.max_attempts", 5)
	v.SetDefault("social.retry_delay", "10ms")
	v.SetDefault("reconciler.interval", "0s")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.BindEnv("server.port", "PORT")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.database", "MONGO_DB")
	v.BindEnv("mongo.timeout", "MONGO_TIMEOUT")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("redis.ttl", "REDIS_TTL")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_ttl", "JWT_TTL")
	v.BindEnv("auth.admin_ids", "ADMIN_IDS")
	v.BindEnv("social.max_attempts", "SOCIAL_MAX_ATTEMPTS")
	v.BindEnv("social.retry_delay", "SOCIAL_RETRY_DELAY")
	v.BindEnv("reconciler.interval", "RECONCILER_INTERVAL")
	v.BindEnv("cors.allow_origins", "CORS_ALLOW_ORIGINS")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.pretty", "LOG_PRETTY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Social.MaxAttempts < 1 {
		return nil, fmt.Errorf("social.max_attempts must be at least 1, got %d", cfg.Social.MaxAttempts)
	}
	return &cfg, nil
}
