package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	Seed     bool
	Classify ClassifyConfig
	Photo    PhotoConfig
}

type ClassifyConfig struct {
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	// Offline swaps the hosted model for the deterministic fake.
	Offline bool
}

type PhotoConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:     *port,
		Env:      env,
		Seed:     boolEnv("SEED_INCIDENTS", true),
		Classify: loadClassifyConfig(),
		Photo:    loadPhotoConfig(env),
	}, nil
}

func loadClassifyConfig() ClassifyConfig {
	timeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("CLASSIFY_TIMEOUT_SECONDS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	attempts := 2
	if raw := strings.TrimSpace(os.Getenv("CLASSIFY_MAX_ATTEMPTS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			attempts = n
		}
	}
	return ClassifyConfig{
		Model:       firstNonEmpty(strings.TrimSpace(os.Getenv("CLASSIFY_MODEL")), "gemini-2.5-flash"),
		Timeout:     timeout,
		MaxAttempts: attempts,
		Offline:     boolEnv("CLASSIFY_OFFLINE", false),
	}
}

func loadPhotoConfig(env string) PhotoConfig {
	endpoint := resolvePhotoEndpoint(env)
	return PhotoConfig{
		Enabled:   endpoint != "" && boolEnv("PHOTO_STORE_ENABLED", true),
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("PHOTO_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("PHOTO_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("PHOTO_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("PHOTO_S3_BUCKET")), "safespot-photos"),
		UseSSL:    resolvePhotoUseSSL(env),
	}
}

func resolvePhotoEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("PHOTO_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("PHOTO_S3_ENDPOINT"))
}

func resolvePhotoUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("PHOTO_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func boolEnv(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
