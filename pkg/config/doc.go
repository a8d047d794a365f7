// Package config loads typed configuration structs from environment
// variables using caarlos0/env field tags, with optional .env file support
// via godotenv.
//
// Each subsystem declares its own Config struct and loads it independently:
//
//	var cfg session.Config
//	config.MustLoad(&cfg)
package config
