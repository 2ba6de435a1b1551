package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the explicit configuration passed into constructors instead of
// reading the process environment at call sites.
type Config struct {
	GeminiAPIKey   string   `envconfig:"GEMINI_API_KEY"`
	GeminiModel    string   `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	MongoURI       string   `envconfig:"MONGODB_URI"`
	MongoDatabase  string   `envconfig:"MONGODB_DATABASE" default:"storyforge"`
	Addr           string   `envconfig:"ADDR" default:":8080"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
