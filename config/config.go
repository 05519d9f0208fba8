// Package config loads run settings from defaults, an optional .env file and
// the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Backend        string
	Headless       bool
	MaxWorkers     int
	RequestTimeout time.Duration
	SettleDelay    time.Duration
	MinDelay       time.Duration
	MaxDelay       time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	DrillDown      bool

	OutputDir  string
	ReportName string
	CSVPath    string

	// Storage selects where screenshots and the report go: local, s3 or sftp.
	Storage string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Prefix          string

	SFTPHost      string
	SFTPPort      int
	SFTPUser      string
	SFTPPass      string
	SFTPRemoteDir string

	DatabaseURL string

	Verbose bool
}

func DefaultConfig() *Config {
	return &Config{
		Backend:        "chrome",
		Headless:       true,
		MaxWorkers:     2,
		RequestTimeout: 60 * time.Second,
		SettleDelay:    3 * time.Second,
		MinDelay:       1 * time.Second,
		MaxDelay:       3 * time.Second,
		MaxRetries:     2,
		RetryBackoff:   2 * time.Second,
		DrillDown:      true,
		OutputDir:      "output",
		ReportName:     "report.md",
		Storage:        "local",
		S3Region:       "auto",
		SFTPPort:       22,
		SFTPRemoteDir:  "/",
	}
}

// Load starts from DefaultConfig and applies environment overrides. A .env
// file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	d := DefaultConfig()
	return &Config{
		Backend:        getEnv("COURSE_INTEL_BACKEND", d.Backend),
		Headless:       getEnvBool("COURSE_INTEL_HEADLESS", d.Headless),
		MaxWorkers:     getEnvInt("COURSE_INTEL_WORKERS", d.MaxWorkers),
		RequestTimeout: getEnvDuration("COURSE_INTEL_REQUEST_TIMEOUT", d.RequestTimeout),
		SettleDelay:    getEnvDuration("COURSE_INTEL_SETTLE_DELAY", d.SettleDelay),
		MinDelay:       getEnvDuration("COURSE_INTEL_MIN_DELAY", d.MinDelay),
		MaxDelay:       getEnvDuration("COURSE_INTEL_MAX_DELAY", d.MaxDelay),
		MaxRetries:     getEnvInt("COURSE_INTEL_MAX_RETRIES", d.MaxRetries),
		RetryBackoff:   getEnvDuration("COURSE_INTEL_RETRY_BACKOFF", d.RetryBackoff),
		DrillDown:      getEnvBool("COURSE_INTEL_DRILL_DOWN", d.DrillDown),

		OutputDir:  getEnv("COURSE_INTEL_OUTPUT_DIR", d.OutputDir),
		ReportName: getEnv("COURSE_INTEL_REPORT_NAME", d.ReportName),
		CSVPath:    getEnv("COURSE_INTEL_CSV_PATH", d.CSVPath),

		Storage: strings.ToLower(getEnv("COURSE_INTEL_STORAGE", d.Storage)),

		S3Bucket:          getEnv("S3_BUCKET", d.S3Bucket),
		S3Region:          getEnv("S3_REGION", d.S3Region),
		S3Endpoint:        getEnv("S3_ENDPOINT", d.S3Endpoint),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", d.S3AccessKeyID),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", d.S3SecretAccessKey),
		S3Prefix:          getEnv("S3_PREFIX", d.S3Prefix),

		SFTPHost:      getEnv("SFTP_HOST", d.SFTPHost),
		SFTPPort:      getEnvInt("SFTP_PORT", d.SFTPPort),
		SFTPUser:      getEnv("SFTP_USER", d.SFTPUser),
		SFTPPass:      getEnv("SFTP_PASS", d.SFTPPass),
		SFTPRemoteDir: getEnv("SFTP_REMOTE_DIR", d.SFTPRemoteDir),

		DatabaseURL: getEnv("DATABASE_URL", d.DatabaseURL),

		Verbose: getEnvBool("COURSE_INTEL_VERBOSE", d.Verbose),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
