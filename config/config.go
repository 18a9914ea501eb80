package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL задаётся при сборке:
//
//	go build -ldflags "-X skinai-scan/config.DefaultAPIBaseURL=https://api.example.com"
var DefaultAPIBaseURL = "http://localhost:8000"

type Config struct {
	APIBaseURL     string
	PredictTimeout time.Duration // 0 означает без таймаута
	TelegramToken  string
	DownloadDir    string
	MediaDir       string
	LogLevel       string

	DevServerAddr      string
	DevServerThreshold float64
	DevServerImageSize int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	timeout, err := getEnvAsDuration("PREDICT_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	threshold, err := getEnvAsFloat("DEVSERVER_THRESHOLD", 0.5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:         NormalizeBaseURL(getEnv("API_BASE_URL", DefaultAPIBaseURL)),
		PredictTimeout:     timeout,
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		DownloadDir:        getEnv("DOWNLOAD_DIR", filepath.Join(os.TempDir(), "skinai")),
		MediaDir:           getEnv("MEDIA_DIR", "."),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevServerAddr:      getEnv("DEVSERVER_ADDR", ":8000"),
		DevServerThreshold: threshold,
		DevServerImageSize: getEnvAsInt("DEVSERVER_IMAGE_SIZE", 128),
	}

	return cfg, nil
}

// NormalizeBaseURL убирает пробелы и завершающие слэши.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse %s: negative duration %s", key, d)
	}
	return d, nil
}
