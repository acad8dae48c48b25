package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Telegram
	TelegramBotToken string
	PollTimeoutSec   int // Long-polling timeout for getUpdates (default: 30)

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/seriestracker.db
	BackupFile   string // $CONFIG_DIR/seriestracker.backup.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("POLL_TIMEOUT_SECONDS", 30)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "seriestracker")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		TelegramBotToken: viper.GetString("TELEGRAM_BOT_TOKEN"),
		PollTimeoutSec:   viper.GetInt("POLL_TIMEOUT_SECONDS"),
		ServerPort:       viper.GetString("SERVER_PORT"),
		DatabaseFile:     filepath.Join(configDir, "seriestracker.db"),
		BackupFile:       filepath.Join(configDir, "seriestracker.backup.db"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
	}

	if config.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	return config, nil
}
