package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for liftplan.
// The values are read by Viper from a config file or environment variables.
// Every backend section is optional; an empty section leaves that backend off.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Paths    PathsConfig    `mapstructure:"paths"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig enables the mongo:// storage backend when URI is set.
type DatabaseConfig struct {
	URI        string `mapstructure:"uri"`
	Name       string `mapstructure:"name"`
	Collection string `mapstructure:"collection"`
}

// S3Config enables the s3:// storage backend when Region or Endpoint is set.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"` // Used when an s3:// path omits the bucket
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether enough is configured to build an S3 client.
func (c S3Config) Enabled() bool {
	return c.Region != "" || c.Endpoint != ""
}

// SQLiteConfig enables the sqlite:// storage backend when Path is set.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// JWTConfig turns on bearer auth for the HTTP API when Secret is set.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	Issuer     string        `mapstructure:"issuer"`
}

// PathsConfig overrides the platform directories. Empty fields fall back to
// the XDG locations under AppName.
type PathsConfig struct {
	AppName    string `mapstructure:"app_name"`
	AppSupport string `mapstructure:"app_support"`
	Cache      string `mapstructure:"cache"`
	Drafts     string `mapstructure:"drafts"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "liftplan")
	v.SetDefault("database.collection", "plan_documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("sqlite.path", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("jwt.issuer", "liftplan")
	v.SetDefault("paths.app_name", "liftplan")
	v.SetDefault("paths.app_support", "")
	v.SetDefault("paths.cache", "")
	v.SetDefault("paths.drafts", "")
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (Config, error) {
	return Load(viper.GetViper(), path)
}

// Load reads configuration into v from a config.yaml under path (optional)
// and the environment, then unmarshals it.
func Load(v *viper.Viper, path string) (config Config, err error) {
	if path != "" {
		v.AddConfigPath(path)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`, `-`, `_`))

	SetDefaults(v)

	err = v.ReadInConfig()
	// A missing config file is fine: defaults and env vars still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}
