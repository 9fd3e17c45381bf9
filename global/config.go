package global

import (
	"os"
	"strconv"
	"time"
)

// AppConfig is the process configuration. Values come from the
// environment with dev defaults, same knobs on every deploy target.
type AppConfig struct {
	HTTPAddr string

	JwtSecret string
	JwtTTL    time.Duration

	MongoURI      string
	MongoDatabase string
	MongoUsername string
	MongoPassword string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PresenceTTL   time.Duration

	// DevLogin enables the token-issuing /login helper. Never in prod.
	DevLogin bool
}

var Config = Load()

func Load() AppConfig {
	return AppConfig{
		HTTPAddr:      envStr("HTTP_ADDR", ":8080"),
		JwtSecret:     envStr("JWT_SECRET", "mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3Hp5Z8q9Rj1o="),
		JwtTTL:        envDur("JWT_TTL", 2*time.Hour),
		MongoURI:      envStr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: envStr("MONGO_DATABASE", "familyhub"),
		MongoUsername: envStr("MONGO_USERNAME", ""),
		MongoPassword: envStr("MONGO_PASSWORD", ""),
		RedisAddr:     envStr("REDIS_ADDR", ""),
		RedisPassword: envStr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		PresenceTTL:   envDur("PRESENCE_TTL", 5*time.Minute),
		DevLogin:      envBool("DEV_LOGIN", true),
	}
}

// GetJwtSecret is shared by the REST auth middleware and the websocket
// handshake validator; both verify against the same signing secret.
func GetJwtSecret() []byte {
	return []byte(Config.JwtSecret)
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
