package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type gameServerEnvironment struct {
	PostgresHost    string
	PostgresPort    string
	PostgresUser    string
	PostgresPW      string
	PostgresDB      string
	PostgresSSLMode string
	RedisHost       string
	RedisPort       string
	RedisPW         string
	RedisDB         string
	NatsURL         string
	HTTPPort        string
	SmallBlind      string
	BigBlind        string
	StartingBalance string
	LogLevel        string
	DisableDelays   string
}

// Env is a helper object for accessing environment variables.
var Env = &gameServerEnvironment{
	PostgresHost:    "POSTGRES_HOST",
	PostgresPort:    "POSTGRES_PORT",
	PostgresUser:    "POSTGRES_USER",
	PostgresPW:      "POSTGRES_PASSWORD",
	PostgresDB:      "POSTGRES_DB",
	PostgresSSLMode: "POSTGRES_SSL_MODE",
	RedisHost:       "REDIS_HOST",
	RedisPort:       "REDIS_PORT",
	RedisPW:         "REDIS_PW",
	RedisDB:         "REDIS_DB",
	NatsURL:         "NATS_URL",
	HTTPPort:        "HTTP_PORT",
	SmallBlind:      "SMALL_BLIND",
	BigBlind:        "BIG_BLIND",
	StartingBalance: "STARTING_BALANCE",
	LogLevel:        "LOG_LEVEL",
	DisableDelays:   "DISABLE_DELAYS",
}

func (g *gameServerEnvironment) getString(key string, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func (g *gameServerEnvironment) getInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer value [%s] for %s", v, key)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return n
}

func (g *gameServerEnvironment) GetPostgresHost() string {
	return g.getString(g.PostgresHost, "localhost")
}

func (g *gameServerEnvironment) GetPostgresPort() int {
	return g.getInt(g.PostgresPort, 5432)
}

func (g *gameServerEnvironment) GetPostgresUser() string {
	return g.getString(g.PostgresUser, "game")
}

func (g *gameServerEnvironment) GetPostgresPW() string {
	return os.Getenv(g.PostgresPW)
}

func (g *gameServerEnvironment) GetPostgresDB() string {
	return g.getString(g.PostgresDB, "casino")
}

func (g *gameServerEnvironment) GetPostgresSSLMode() string {
	return g.getString(g.PostgresSSLMode, "disable")
}

func (g *gameServerEnvironment) GetRedisHost() string {
	return g.getString(g.RedisHost, "localhost")
}

func (g *gameServerEnvironment) GetRedisPort() int {
	return g.getInt(g.RedisPort, 6379)
}

func (g *gameServerEnvironment) GetRedisPW() string {
	return os.Getenv(g.RedisPW)
}

func (g *gameServerEnvironment) GetRedisDB() int {
	return g.getInt(g.RedisDB, 0)
}

func (g *gameServerEnvironment) GetNatsURL() string {
	return g.getString(g.NatsURL, "nats://localhost:4222")
}

func (g *gameServerEnvironment) GetHTTPPort() int {
	return g.getInt(g.HTTPPort, 8080)
}

func (g *gameServerEnvironment) GetSmallBlind() int64 {
	return int64(g.getInt(g.SmallBlind, 10))
}

func (g *gameServerEnvironment) GetBigBlind() int64 {
	return int64(g.getInt(g.BigBlind, 20))
}

func (g *gameServerEnvironment) GetStartingBalance() int64 {
	return int64(g.getInt(g.StartingBalance, 5000))
}

func (g *gameServerEnvironment) GetZeroLogLogLevel() zerolog.Level {
	levelStr := g.getString(g.LogLevel, "info")
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid log level [%s]", levelStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return level
}

func (g *gameServerEnvironment) ShouldDisableDelays() bool {
	v := g.getString(g.DisableDelays, "false")
	return v == "1" || v == "true"
}
