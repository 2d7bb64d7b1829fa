package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GitHub   GitHubConfig
	Analysis AnalysisConfig
	Workers  WorkersConfig
	Schedule ScheduleConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
	// APIToken guards the API when set
	APIToken     string
}

type DatabaseConfig struct {
	Path string
}

type GitHubConfig struct {
	Token string
}

// AnalysisConfig tunes both language analysis strategies
type AnalysisConfig struct {
	Classifier             string
	ScratchDir             string
	Skipped                []string
	HistoryPageSize        int
	HistoryMaxFailedPages  int
	RecentDays             int
	RecentPages            int
	RecentPerPage          int
	RecentFetchConcurrency int
}

type WorkersConfig struct {
	Languages int
}

// ScheduleConfig lists logins re-analysed periodically
type ScheduleConfig struct {
	Logins        []string
	Mode          string
	IntervalHours int
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().Debug("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
			APIToken:     getEnv("API_TOKEN", ""),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./langscope.db"),
		},
		GitHub: GitHubConfig{
			Token: getEnv("GITHUB_TOKEN", ""),
		},
		Analysis: AnalysisConfig{
			Classifier:             getEnv("CLASSIFIER", "linguist"),
			ScratchDir:             getEnv("SCRATCH_DIR", os.TempDir()),
			Skipped:                getEnvAsList("SKIPPED"),
			HistoryPageSize:        getEnvAsInt("HISTORY_PAGE_SIZE", 10),
			HistoryMaxFailedPages:  getEnvAsInt("HISTORY_MAX_FAILED_PAGES", 5),
			RecentDays:             getEnvAsInt("RECENT_DAYS", 14),
			RecentPages:            getEnvAsInt("RECENT_PAGES", 3),
			RecentPerPage:          getEnvAsInt("RECENT_PER_PAGE", 100),
			RecentFetchConcurrency: getEnvAsInt("RECENT_FETCH_CONCURRENCY", 8),
		},
		Workers: WorkersConfig{
			Languages: getEnvAsInt("LANGUAGE_WORKERS", 1),
		},
		Schedule: ScheduleConfig{
			Logins:        getEnvAsList("SCHEDULED_LOGINS"),
			Mode:          getEnv("SCHEDULE_MODE", "recent"),
			IntervalHours: getEnvAsInt("SCHEDULE_INTERVAL_HOURS", 24),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets a positive integer environment variable or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
		logger.Warnf("Invalid value for %s, using default: %d", key, defaultValue)
	}
	return defaultValue
}

// getEnvAsList splits a comma separated environment variable
func getEnvAsList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
