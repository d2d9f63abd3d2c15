package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath  string
	WorkDir string

	AssetsDir     string
	AssetsBaseURL string

	HeaderScanRows    int
	HeaderScoreMin    float64
	KnownFormatMarker string

	PositionTolerance int

	OpenAIAPIKey       string
	OpenAIModel        string
	EnrichBatchSize    int
	EnrichBatchDelayMs int
	EnrichTimeoutMs    int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:  getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		WorkDir: getEnv("WORK_DIR", filepath.Join(cwd, "data", "work")),

		AssetsDir:     getEnv("ASSETS_DIR", filepath.Join(cwd, "data", "assets")),
		AssetsBaseURL: getEnv("ASSETS_BASE_URL", "/assets"),

		HeaderScanRows:    getEnvInt("HEADER_SCAN_ROWS", 15),
		HeaderScoreMin:    getEnvFloat("HEADER_SCORE_MIN", 0.2),
		KnownFormatMarker: getEnv("KNOWN_FORMAT_MARKER", "POE"),

		PositionTolerance: getEnvInt("POSITION_TOLERANCE", 1),

		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		EnrichBatchSize:    getEnvInt("ENRICH_BATCH_SIZE", 10),
		EnrichBatchDelayMs: getEnvInt("ENRICH_BATCH_DELAY_MS", 1000),
		EnrichTimeoutMs:    getEnvInt("ENRICH_TIMEOUT_MS", 30000),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
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

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
