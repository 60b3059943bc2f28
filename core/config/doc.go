// Package config assembles the application configuration from environment
// variables and an optional .env file.
//
// Each subsystem declares its own configuration struct with mapstructure and
// default tags; this package binds them into a single Config using Viper.
// Environment variables map onto nested keys with underscores, e.g.
// DECK_POOL_CAPACITY -> deck.pool_capacity.
package config
