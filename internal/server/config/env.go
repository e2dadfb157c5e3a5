package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "FITTRACK_"

// parseEnv overlays FITTRACK_* environment variables. A dotenv file given
// with -env is loaded first (a missing file there panics); otherwise ./.env
// is loaded when present. Variables already set in the process environment
// win over the dotenv file, as godotenv.Load never overrides them.
//
// Malformed numeric, boolean or duration values panic for the same reason
// parseJson does.
func parseEnv(config *Config) {
	if file := flagx.EnvFileFlags(); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString("HTTP_ADDR", &config.HTTPAddr)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("SECRET_KEY", &config.SecretKey)
	envDuration("SESSION_VALIDITY_DURATION", &config.SessionValidityDuration)
	envBool("SECURE_COOKIE", &config.SecureCookie)
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = splitList(v)
	}
	envString("REDIS_ADDR", &config.RedisAddr)
	envString("REDIS_PASSWORD", &config.RedisPassword)
	envInt("REDIS_DB", &config.RedisDB)
	envString("S3_ROOT_USER", &config.S3RootUser)
	envString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString("S3_BUCKET", &config.S3Bucket)
	envString("S3_REGION", &config.S3Region)
	envString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	envDuration("AVATAR_URL_VALIDITY", &config.AvatarURLValidity)
	envString("LOG_BACKEND", &config.LogBackend)
	envString("LOG_LEVEL", &config.LogLevel)
	envString("LOG_FILE", &config.LogFile)
	envInt("AUTH_RATE_LIMIT", &config.AuthRateLimit)
	envDuration("SHUTDOWN_TIMEOUT", &config.ShutdownTimeout)
	envBool("MIGRATE_ON_START", &config.MigrateOnStart)
}

func lookup(name string) (string, bool) {
	return os.LookupEnv(EnvPrefix + name)
}

func envString(name string, dst *string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	if v, ok := lookup(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func envBool(name string, dst *bool) {
	if v, ok := lookup(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		*dst = b
	}
}

func envDuration(name string, dst *time.Duration) {
	if v, ok := lookup(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
