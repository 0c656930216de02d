package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	// Legacy is the read-only historical database behind /historique.
	// The viewer is not mounted when Legacy.Name is empty.
	Legacy DatabaseConfig
	Log    LogConfig
	Auth   AuthConfig
	Upload UploadConfig
	Mail   MailConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
	// Format is "json" for production output or "console" for
	// human-readable development logs.
	Format string
}

type AuthConfig struct {
	TokenTTL time.Duration
	// ResetURL is the front-end page the password-reset mail points to.
	ResetURL string
}

type UploadConfig struct {
	Dir string
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "60s")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "biosen")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "biosen")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LEGACY_DB_HOST", "localhost")
	viper.SetDefault("LEGACY_DB_PORT", 3306)
	viper.SetDefault("LEGACY_DB_USER", "")
	viper.SetDefault("LEGACY_DB_PASSWORD", "")
	viper.SetDefault("LEGACY_DB_NAME", "")
	viper.SetDefault("LEGACY_DB_MAX_OPEN_CONNS", 5)
	viper.SetDefault("LEGACY_DB_MAX_IDLE_CONNS", 2)
	viper.SetDefault("LEGACY_DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("AUTH_TOKEN_TTL", "720h")
	viper.SetDefault("AUTH_RESET_URL", "http://localhost:3000/reset-password")
	viper.SetDefault("UPLOAD_DIR", "storage")
	viper.SetDefault("MAIL_HOST", "")
	viper.SetDefault("MAIL_PORT", 587)
	viper.SetDefault("MAIL_USERNAME", "")
	viper.SetDefault("MAIL_PASSWORD", "")
	viper.SetDefault("MAIL_FROM", "noreply@biosen.local")

	readTimeout, err := time.ParseDuration(viper.GetString("SERVER_READ_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	writeTimeout, err := time.ParseDuration(viper.GetString("SERVER_WRITE_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	idleTimeout, err := time.ParseDuration(viper.GetString("SERVER_IDLE_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := time.ParseDuration(viper.GetString("SERVER_SHUTDOWN_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	legacyConnMaxLifetime, err := time.ParseDuration(viper.GetString("LEGACY_DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	tokenTTL, err := time.ParseDuration(viper.GetString("AUTH_TOKEN_TTL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetInt("SERVER_PORT"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			IdleTimeout:     idleTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Legacy: DatabaseConfig{
			Host:            viper.GetString("LEGACY_DB_HOST"),
			Port:            viper.GetInt("LEGACY_DB_PORT"),
			User:            viper.GetString("LEGACY_DB_USER"),
			Password:        viper.GetString("LEGACY_DB_PASSWORD"),
			Name:            viper.GetString("LEGACY_DB_NAME"),
			MaxOpenConns:    viper.GetInt("LEGACY_DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("LEGACY_DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: legacyConnMaxLifetime,
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Auth: AuthConfig{
			TokenTTL: tokenTTL,
			ResetURL: viper.GetString("AUTH_RESET_URL"),
		},
		Upload: UploadConfig{
			Dir: viper.GetString("UPLOAD_DIR"),
		},
		Mail: MailConfig{
			Host:     viper.GetString("MAIL_HOST"),
			Port:     viper.GetInt("MAIL_PORT"),
			Username: viper.GetString("MAIL_USERNAME"),
			Password: viper.GetString("MAIL_PASSWORD"),
			From:     viper.GetString("MAIL_FROM"),
		},
	}

	return cfg, nil
}
