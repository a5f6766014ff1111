package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	JWTSecret      string
	LogLevel       string
	LogFormat      string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string

	MaxFileSizeMB   int
	FetchTimeout    time.Duration
	RedirectMaxHops int
	SignedURLTTL    time.Duration

	OCREnabled      bool
	OCRLanguage     string
	OCRPreprocess   bool
	DefaultMaxPages int
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),

		MaxFileSizeMB:   getEnvInt("MAX_FILE_SIZE_MB", 50),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 60*time.Second),
		RedirectMaxHops: getEnvInt("REDIRECT_MAX_HOPS", 5),
		SignedURLTTL:    getEnvDuration("SIGNED_URL_TTL", 15*time.Minute),

		OCREnabled:      getEnvBool("OCR_ENABLED", true),
		OCRLanguage:     getEnv("OCR_LANGUAGE", "eng"),
		OCRPreprocess:   getEnvBool("OCR_PREPROCESS", true),
		DefaultMaxPages: getEnvInt("DEFAULT_MAX_PAGES", 100),
	}

	return cfg
}

// HasCloudinaryCredentials reports whether signed Cloudinary downloads can be built.
func (c *Config) HasCloudinaryCredentials() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// HasAwsCredentials reports whether S3 presigning can be configured.
func (c *Config) HasAwsCredentials() bool {
	return c.AwsAccessKey != "" && c.AwsSecretKey != "" && c.AwsRegion != ""
}

// MaxFileSizeBytes is the fetch size cap in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Int("default", def).Msg("not an int, using default")
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Bool("default", def).Msg("not a bool, using default")
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Dur("default", def).Msg("not a duration, using default")
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
