package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/dewabisma/parfum-api/internal/db"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig
	Database db.Config
	Auth     AuthConfig
	Upload   UploadConfig
	CORS     CORSConfig
	Webhook  WebhookConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	JWTSecret      string
	SessionTTL     time.Duration
	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

type UploadConfig struct {
	Dir string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type WebhookConfig struct {
	RevalidateURL string
	Secret        string
}

// Load reads config.yaml from configPath, with environment overrides.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: db.DefaultConfig(),
		Auth: AuthConfig{
			JWTSecret:      "change-me",
			SessionTTL:     30 * 24 * time.Hour,
			VerifyTokenTTL: time.Hour,
			ResetTokenTTL:  time.Hour,
		},
		Upload: UploadConfig{Dir: "uploads"},
		CORS:   CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv() // allow environment overrides
	v.SetEnvPrefix("PARFUM")

	v.BindEnv("server.host")
	v.BindEnv("server.port")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("auth.jwt_secret")
	v.BindEnv("webhook.revalidate_url")
	v.BindEnv("webhook.secret")

	if err := v.ReadInConfig(); err != nil {
		log.Info().Msg("no config.yaml found, using defaults and env vars")
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("loaded config file")
	}

	if v.IsSet("server.host") {
		cfg.Server.Host = v.GetString("server.host")
	}
	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("auth.jwt_secret") {
		cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	}
	if v.IsSet("auth.session_ttl") {
		cfg.Auth.SessionTTL = v.GetDuration("auth.session_ttl")
	}
	if v.IsSet("auth.verify_token_ttl") {
		cfg.Auth.VerifyTokenTTL = v.GetDuration("auth.verify_token_ttl")
	}
	if v.IsSet("auth.reset_token_ttl") {
		cfg.Auth.ResetTokenTTL = v.GetDuration("auth.reset_token_ttl")
	}
	if v.IsSet("upload.dir") {
		cfg.Upload.Dir = v.GetString("upload.dir")
	}
	if v.IsSet("cors.allowed_origins") {
		cfg.CORS.AllowedOrigins = v.GetStringSlice("cors.allowed_origins")
	}
	if v.IsSet("webhook.revalidate_url") {
		cfg.Webhook.RevalidateURL = v.GetString("webhook.revalidate_url")
	}
	if v.IsSet("webhook.secret") {
		cfg.Webhook.Secret = v.GetString("webhook.secret")
	}

	return cfg, nil
}
