// Package config provides environment-based configuration.
//
// Loads from a .env file when present (godotenv), validates required fields
// and enum values, and applies defaults for the vote rate limiter.
package config
