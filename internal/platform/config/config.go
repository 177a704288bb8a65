package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AllowedOrigins []string

	LeetCodeBaseURL string
	UserAgent       string

	// Fallback credentials used when an account has no stored session.
	FallbackSession   string
	FallbackCSRFToken string

	UpstreamTimeout       time.Duration
	UpstreamRetryAttempts uint

	SubmitCheckAttempts int
	SubmitCheckInterval time.Duration

	PollQueueName      string
	WorkerPollAttempts int
	WorkerPollInterval time.Duration

	POTDCacheTTL      time.Duration
	ReferenceCacheTTL time.Duration

	Debug bool
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort: getEnv("API_PORT", "8000"),
		JWTKey:  []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:  time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "potd_board_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		AllowedOrigins: getEnvAsList("FRONTEND_ORIGINS", []string{"http://localhost:5173"}),

		LeetCodeBaseURL: getEnv("LEETCODE_BASE_URL", "https://leetcode.com"),
		UserAgent: getEnv("LEETCODE_USER_AGENT",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),

		FallbackSession:   getEnv("LEETCODE_SESSION", ""),
		FallbackCSRFToken: getEnv("LEETCODE_CSRF_TOKEN", ""),

		UpstreamTimeout:       time.Duration(getEnvAsInt("LEETCODE_TIMEOUT_SECONDS", 30)) * time.Second,
		UpstreamRetryAttempts: uint(getEnvAsInt("LEETCODE_RETRY_ATTEMPTS", 2)),

		SubmitCheckAttempts: getEnvAsInt("SUBMIT_CHECK_ATTEMPTS", 20),
		SubmitCheckInterval: time.Duration(getEnvAsInt("SUBMIT_CHECK_INTERVAL_MS", 1500)) * time.Millisecond,

		PollQueueName:      getEnv("POLL_QUEUE_NAME", "submission_poll_queue"),
		WorkerPollAttempts: getEnvAsInt("WORKER_POLL_ATTEMPTS", 40),
		WorkerPollInterval: time.Duration(getEnvAsInt("WORKER_POLL_INTERVAL_MS", 3000)) * time.Millisecond,

		POTDCacheTTL:      time.Duration(getEnvAsInt("POTD_CACHE_TTL_MINUTES", 24*60)) * time.Minute,
		ReferenceCacheTTL: time.Duration(getEnvAsInt("REFERENCE_CACHE_TTL_MINUTES", 30)) * time.Minute,

		Debug: getEnv("DEBUG", "") != "",
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

// RequestTimeout bounds a single request. Submit holds the response open for
// the whole inline check budget, so the bound scales with it instead of
// cutting the pending response off mid-flight.
func (c *Config) RequestTimeout() time.Duration {
	timeout := 60 * time.Second
	budget := time.Duration(c.SubmitCheckAttempts)*c.SubmitCheckInterval + 30*time.Second
	if budget > timeout {
		timeout = budget
	}
	return timeout
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
