// Package config loads typed configuration from environment variables.
//
// Structs are described with caarlos0/env tags. A .env file is loaded on
// first use when present:
//
//	type Config struct {
//		AppEnv string    `env:"APP_ENV" envDefault:"development"`
//		DB     pg.Config `envPrefix:""`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Every struct type is parsed once. Later Load calls for the same type
// return the cached value even if the environment changed since.
package config
