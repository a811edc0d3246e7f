package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Builder  BuilderConfig  `mapstructure:"builder"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// Env is "development" or "production". It picks the log handler and gin mode.
	Env string `mapstructure:"env"`
}

func (s ServerConfig) IsDev() bool {
	return s.Env != "production"
}

// DatabaseConfig selects the repository driver: "mongo" (default) or "memory".
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	// PublicBaseURL prefixes object keys for publicly readable objects such as avatars.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AuthConfig lists the emails that register with the admin role.
// Everyone else registers as a trainer.
type AuthConfig struct {
	AdminEmails []string `mapstructure:"admin_emails"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

type BuilderConfig struct {
	DraftTTL time.Duration `mapstructure:"draft_ttl"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "fitpro")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.public_base_url", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("auth.admin_emails", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.sentry_dsn", "")
	v.SetDefault("builder.draft_ttl", "24h")

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	return
}

// Missing lists the required keys that are unset. The server still starts
// without them; each dependent call fails on its own.
func (c Config) Missing() []string {
	var missing []string
	if c.Database.Driver != "memory" && c.Database.URI == "" {
		missing = append(missing, "database.uri")
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "jwt.secret")
	}
	return missing
}
