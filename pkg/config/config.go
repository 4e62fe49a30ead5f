// Package config loads typed configuration structs from environment
// variables. A .env file in the working directory is loaded once, if
// present, before the first parse. Required fields that are missing
// fail loudly at startup rather than surfacing as runtime errors.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilTarget     = errors.New("config: target must be a non-nil pointer")
	ErrParsingFailed = errors.New("config: failed to parse environment")
)

var loadDotEnv sync.Once

// Load parses environment variables into the given struct based on its
// `env` field tags.
//
// Example:
//
//	type MongoConfig struct {
//		URL string `env:"MONGODB_URL,required"`
//	}
//
//	var cfg MongoConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	loadDotEnv.Do(func() {
		// The .env file is optional; real environments set vars directly.
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilTarget
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingFailed, err)
	}
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
