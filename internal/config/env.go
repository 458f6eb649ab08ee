package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// MaxUploadBytes bounds the request body of an invoice upload.
const MaxUploadBytes int64 = 16 << 20

type Config struct {
	Port             string
	UploadDir        string
	Verbose          bool
	VendorDir        string
	EngineConfigPath string
	EngineURL        string
	AnalysisTimeout  time.Duration
	LogLevel         string
	LogFormat        string
	CORSOrigins      []string
	JWTSecret        string
	DatabaseURL      string
	DBMaxConns       int
	AwsAccessKey     string
	AwsSecretKey     string
	AwsRegion        string
	ArchiveBucket    string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	vendorDir := getEnv("VENDOR_DIR", filepath.Join("vendor", "fatura_tanima_uygulamasi"))

	cfg := &Config{
		Port:             getEnv("PORT", "5001"),
		UploadDir:        getEnv("UPLOAD_FOLDER", "fatura_uploads"),
		Verbose:          getEnvBool("ANALYSIS_VERBOSE", false),
		VendorDir:        vendorDir,
		EngineConfigPath: getEnv("ENGINE_CONFIG_PATH", filepath.Join(vendorDir, "config", "config.json")),
		EngineURL:        getEnv("ENGINE_URL", ""),
		AnalysisTimeout:  getEnvDuration("ANALYSIS_TIMEOUT", 0),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		CORSOrigins:      getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DBMaxConns:       getEnvInt("DB_MAX_CONNS", 10),
		AwsAccessKey:     getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:     getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:        getEnv("AWS_REGION", "us-east-2"),
		ArchiveBucket:    getEnv("ARCHIVE_BUCKET", ""),
	}

	return cfg
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

// getEnvBool accepts only "true" (any case) as true, matching the
// ANALYSIS_VERBOSE convention of the deployment scripts.
func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err == nil {
		return d
	}
	// bare numbers are seconds
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	log.Warn().Str("key", key).Str("value", v).Dur("default", def).Msg("not a duration, using default")
	return def
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
