// Package config loads runtime configuration for the cmd/replay
// demonstration command from environment variables. cmd/filterpass does
// not use it; it takes its settings from command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultFramingMode      = "length-prefixed"
	defaultSnapshotDepth    = 10
	defaultRabbitBatchSize  = 50
	defaultRabbitBatchDelay = 500 * time.Millisecond
)

// Config holds the settings of cmd/replay.
type Config struct {
	InputPath     string
	Symbol        string
	FramingMode   string
	SnapshotDepth int
	RabbitMQ      RabbitMQConfig
}

// RabbitMQConfig configures the optional AMQP event sink; Enabled is false
// unless RABBITMQ_URL is set.
type RabbitMQConfig struct {
	Enabled    bool
	URL        string
	Exchange   string
	BatchSize  int
	BatchDelay time.Duration
}

// Load builds Config from environment variables.
func Load() (*Config, error) {
	input := strings.TrimSpace(os.Getenv("ITCH_INPUT_FILE"))
	if input == "" {
		return nil, errors.New("ITCH_INPUT_FILE is required")
	}

	symbol := strings.TrimSpace(os.Getenv("ITCH_SYMBOL"))
	if symbol == "" {
		return nil, errors.New("ITCH_SYMBOL is required")
	}

	depth, err := getInt("ITCH_SNAPSHOT_DEPTH", defaultSnapshotDepth)
	if err != nil {
		return nil, fmt.Errorf("parse ITCH_SNAPSHOT_DEPTH: %w", err)
	}

	rabbitURL := strings.TrimSpace(os.Getenv("RABBITMQ_URL"))
	batchSize, err := getInt("RABBITMQ_BATCH_SIZE", defaultRabbitBatchSize)
	if err != nil {
		return nil, fmt.Errorf("parse RABBITMQ_BATCH_SIZE: %w", err)
	}
	batchDelayMS, err := getInt("RABBITMQ_BATCH_DELAY_MS", int(defaultRabbitBatchDelay/time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("parse RABBITMQ_BATCH_DELAY_MS: %w", err)
	}

	return &Config{
		InputPath:     input,
		Symbol:        symbol,
		FramingMode:   getString("ITCH_FRAMING", defaultFramingMode),
		SnapshotDepth: depth,
		RabbitMQ: RabbitMQConfig{
			Enabled:    rabbitURL != "",
			URL:        rabbitURL,
			Exchange:   getString("RABBITMQ_EXCHANGE", "itch.book_events"),
			BatchSize:  batchSize,
			BatchDelay: time.Duration(batchDelayMS) * time.Millisecond,
		},
	}, nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}
