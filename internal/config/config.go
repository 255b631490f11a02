package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Settings struct {
	HTTPAddr string

	DBDriver string // postgres|sqlite
	DBDSN    string

	AutoMigrate bool

	ContentSource  string // db|document
	ContentBackend string // file|redis
	ContentPath    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BlobBasePath    string
	PublicAssetsURL string

	JWTSecret         string
	AdminEmails       []string
	AdminPasswordHash string // bcrypt

	CORSOrigins []string

	QuizAdvanceDelay time.Duration
	FinalExamMinutes int
	SessionIdleTTL   time.Duration

	LogLevel string
	IsLambda bool
}

func Load() Settings {
	return Settings{
		HTTPAddr:          envOr("HTTP_ADDR", ":8080"),
		DBDriver:          envOr("DB_DRIVER", "sqlite"),
		DBDSN:             os.Getenv("DATABASE_DSN"),
		AutoMigrate:       envBool("DB_AUTO_MIGRATE", true),
		ContentSource:     envOr("CONTENT_SOURCE", "db"),
		ContentBackend:    envOr("CONTENT_BACKEND", "file"),
		ContentPath:       envOr("CONTENT_PATH", "./training-content.json"),
		RedisAddr:         envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           envInt("REDIS_DB", 0),
		BlobBasePath:      envOr("BLOB_BASE_PATH", "./data"),
		PublicAssetsURL:   envOr("PUBLIC_ASSETS_URL", "/assets/"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminEmails:       csvOr("ADMIN_EMAILS", ""),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		CORSOrigins:       csvOr("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"),
		QuizAdvanceDelay:  envDuration("QUIZ_ADVANCE_DELAY", 600*time.Millisecond),
		FinalExamMinutes:  envInt("FINAL_EXAM_MINUTES", 60),
		SessionIdleTTL:    envDuration("SESSION_IDLE_TTL", 2*time.Hour),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		IsLambda:          os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
