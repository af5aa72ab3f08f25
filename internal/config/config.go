package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"triples-mcp/internal/stats"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string        `validate:"required"`
	LogDir              string        `validate:"required"`
	DBPath              string        `validate:"required"`
	SheetIndex          int           `validate:"gte=0"`
	Analysis            stats.Options `validate:"required"`
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// The executable's directory wins; MCP clients start the server from anywhere.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	windows, err := parseWindows(getEnv("TRIPLES_WINDOWS", ""))
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		DataPath:   dataPath,
		LogDir:     logDir,
		DBPath:     getEnv("TRIPLES_DB_PATH", filepath.Join(dataPath, "triples.db")),
		SheetIndex: getEnvInt("TRIPLES_SHEET", 0),
		Analysis: stats.Options{
			Windows:       windows,
			ClusterMaxGap: getEnvInt("TRIPLES_CLUSTER_MAX_GAP", stats.DefaultClusterMaxGap),
			LongGap:       getEnvInt("TRIPLES_LONG_GAP", stats.DefaultLongGap),
			RecentEvents:  getEnvInt("TRIPLES_LAST_EVENTS", stats.DefaultRecentEvents),
		},
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	if err := Validate(cfg); err != nil {
		return nil, eris.Wrap(err, "config: invalid configuration")
	}
	return cfg, nil
}

// parseWindows reads a comma separated list of window sizes. Empty means defaults.
func parseWindows(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return stats.DefaultOptions().Windows, nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, eris.Wrapf(err, "config: TRIPLES_WINDOWS entry %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
