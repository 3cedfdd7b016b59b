package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env              string
	HTTPAddr         string
	MongoURI         string
	MongoDB          string
	KafkaBrokers     []string
	KafkaTopicPrefix string
	GenAIURL         string
	GenAIModel       string
	GenAITimeout     time.Duration
	GenAIMaxTokens   int
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool
	Season           string
	PreviewPerHour   int
	PreviewBurst     int
}

// Load parses configuration from the current environment. MONGO_URI and
// KAFKA_BROKERS are optional: without them the service runs on in-memory
// storage with event publishing disabled.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "tripquote"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		GenAIURL:         getEnv("GENAI_URL", "http://localhost:11434/api/generate"),
		GenAIModel:       getEnv("GENAI_MODEL", "llama3"),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "tripquote-transcripts"),
		Season:           getEnv("SEASON", "summer"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	genaiTimeout, err := parseDurationEnv("GENAI_TIMEOUT", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.GenAITimeout = genaiTimeout

	maxTokens, err := parseIntEnv("GENAI_MAX_TOKENS", 4096)
	if err != nil {
		return Config{}, err
	}
	cfg.GenAIMaxTokens = maxTokens

	perHour, err := parseIntEnv("PREVIEW_RATE_PER_HOUR", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.PreviewPerHour = perHour

	burst, err := parseIntEnv("PREVIEW_RATE_BURST", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.PreviewBurst = burst

	useSSL, err := parseBoolEnv("S3_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg.S3UseSSL = useSSL

	if cfg.GenAIURL == "" {
		return Config{}, fmt.Errorf("GENAI_URL is required")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil {
		return 0, fmt.Errorf("invalid %s integer: %q", key, raw)
	}
	return v, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
