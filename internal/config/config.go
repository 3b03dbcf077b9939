package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Addr          string
	DSN           string
	SessionSecret string
	SessionSecure bool
	LogLevel      string
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info().Msg(".env not found, continuing with environment variables")
		} else {
			log.Warn().Err(err).Msg("Error loading .env file")
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ADDR", ":3000")
	v.SetDefault("DSN", "postgres://localhost:5432/blogly?sslmode=disable")
	v.SetDefault("SESSION_SECRET_KEY", "secret")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("LOG_LEVEL", "info")

	return Config{
		Addr:          v.GetString("ADDR"),
		DSN:           v.GetString("DSN"),
		SessionSecret: v.GetString("SESSION_SECRET_KEY"),
		SessionSecure: v.GetBool("SESSION_SECURE"),
		LogLevel:      v.GetString("LOG_LEVEL"),
	}
}
