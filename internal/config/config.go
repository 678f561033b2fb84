package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/analysis"
)

// Storage backends
const (
	StorageLocal = "local"
	StorageAzure = "azure"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Schedule configuration
	ScanSchedule string // cron expression with seconds

	// Storage configuration
	StorageBackend   string
	DataDir          string
	StorageAccount   string
	StorageContainer string
	TranscriptPrefix string

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Topic augmentation
	EnableTopicAugmentation bool
	GeminiAPIKey            string
	GeminiModel             string
	AugmentTimeout          time.Duration

	// Analysis thresholds
	AnswerWindowSeconds   float64
	ThreadWindowSeconds   float64
	ThreadLookahead       int
	MaxAnswersPerQuestion int
	RelevanceGatedThreads bool
	TopKeywords           int
	TopClusters           int
	TopTrends             int
	TopMembers            int
	TopAnswerers          int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	defaults := analysis.DefaultOptions()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Debug:        getBoolEnv("DEBUG", false),
		ScanSchedule: getEnv("SCAN_SCHEDULE", "0 */15 * * * *"),

		StorageBackend:   strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		DataDir:          getEnv("DATA_DIR", "./data"),
		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "transcripts"),
		TranscriptPrefix: getEnv("TRANSCRIPT_PREFIX", ""),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		EnableTopicAugmentation: getBoolEnv("ENABLE_TOPIC_AUGMENTATION", true),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		GeminiModel:             getEnv("GEMINI_MODEL", ""),
		AugmentTimeout:          getDurationEnv("AUGMENT_TIMEOUT", defaults.AugmentTimeout),

		AnswerWindowSeconds:   getFloatEnv("ANSWER_WINDOW_SECONDS", defaults.AnswerWindowSeconds),
		ThreadWindowSeconds:   getFloatEnv("THREAD_WINDOW_SECONDS", defaults.ThreadWindowSeconds),
		ThreadLookahead:       getIntEnv("THREAD_LOOKAHEAD", defaults.ThreadLookahead),
		MaxAnswersPerQuestion: getIntEnv("MAX_ANSWERS_PER_QUESTION", defaults.MaxAnswersPerQuestion),
		RelevanceGatedThreads: getBoolEnv("RELEVANCE_GATED_THREADS", defaults.RelevanceGatedThreads),
		TopKeywords:           getIntEnv("TOP_KEYWORDS", defaults.TopKeywords),
		TopClusters:           getIntEnv("TOP_CLUSTERS", defaults.TopClusters),
		TopTrends:             getIntEnv("TOP_TRENDS", defaults.TopTrends),
		TopMembers:            getIntEnv("TOP_MEMBERS", defaults.TopMembers),
		TopAnswerers:          getIntEnv("TOP_ANSWERERS", defaults.TopAnswerers),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageLocal:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for local storage")
		}
	case StorageAzure:
		if c.StorageAccount == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT is required for azure storage")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be 'local' or 'azure'")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	if c.AnswerWindowSeconds <= 0 || c.ThreadWindowSeconds <= 0 {
		return fmt.Errorf("ANSWER_WINDOW_SECONDS and THREAD_WINDOW_SECONDS must be positive")
	}
	if c.ThreadLookahead <= 0 || c.MaxAnswersPerQuestion <= 0 {
		return fmt.Errorf("THREAD_LOOKAHEAD and MAX_ANSWERS_PER_QUESTION must be positive")
	}
	if c.AugmentTimeout <= 0 {
		return fmt.Errorf("AUGMENT_TIMEOUT must be positive")
	}

	return nil
}

// AugmentationEnabled reports whether the Gemini theme source should be wired
func (c *Config) AugmentationEnabled() bool {
	return c.EnableTopicAugmentation && c.GeminiAPIKey != ""
}

// AnalysisOptions builds the analyzer thresholds from the environment
func (c *Config) AnalysisOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	opts.AnswerWindowSeconds = c.AnswerWindowSeconds
	opts.ThreadWindowSeconds = c.ThreadWindowSeconds
	opts.ThreadLookahead = c.ThreadLookahead
	opts.MaxAnswersPerQuestion = c.MaxAnswersPerQuestion
	opts.RelevanceGatedThreads = c.RelevanceGatedThreads
	opts.TopKeywords = c.TopKeywords
	opts.TopClusters = c.TopClusters
	opts.TopTrends = c.TopTrends
	opts.TopMembers = c.TopMembers
	opts.TopAnswerers = c.TopAnswerers
	opts.AugmentTimeout = c.AugmentTimeout
	return opts
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("10s") or a bare number of seconds
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		if seconds, err := strconv.ParseFloat(value, 64); err == nil {
			return time.Duration(seconds * float64(time.Second))
		}
	}
	return defaultValue
}
