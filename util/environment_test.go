package util

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestEnvDefaults(t *testing.T) {
	os.Unsetenv(Env.SmallBlind)
	os.Unsetenv(Env.BigBlind)
	os.Unsetenv(Env.StartingBalance)
	os.Unsetenv(Env.HTTPPort)

	assert.Equal(t, int64(10), Env.GetSmallBlind())
	assert.Equal(t, int64(20), Env.GetBigBlind())
	assert.Equal(t, int64(5000), Env.GetStartingBalance())
	assert.Equal(t, 8080, Env.GetHTTPPort())
}

func TestEnvOverrides(t *testing.T) {
	os.Setenv(Env.BigBlind, "50")
	defer os.Unsetenv(Env.BigBlind)
	assert.Equal(t, int64(50), Env.GetBigBlind())
}

func TestLogLevelParsing(t *testing.T) {
	os.Setenv(Env.LogLevel, "warn")
	defer os.Unsetenv(Env.LogLevel)
	assert.Equal(t, zerolog.WarnLevel, Env.GetZeroLogLogLevel())

	os.Setenv(Env.LogLevel, "")
	assert.Equal(t, zerolog.InfoLevel, Env.GetZeroLogLogLevel())
}

func TestBadIntPanics(t *testing.T) {
	os.Setenv(Env.HTTPPort, "not-a-port")
	defer os.Unsetenv(Env.HTTPPort)
	assert.Panics(t, func() { Env.GetHTTPPort() })
}
