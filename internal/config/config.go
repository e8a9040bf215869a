package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath       string
	OutputDir    string
	UploadDir    string
	SynonymsPath string

	HTTPAddr    string
	MaxUploadMB int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:       getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir:    getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		UploadDir:    getEnv("UPLOAD_DIR", filepath.Join(cwd, "data", "uploads")),
		SynonymsPath: getEnv("SYNONYMS_PATH", ""),

		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		MaxUploadMB: getEnvInt("HTTP_MAX_UPLOAD_MB", 32),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
