package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"intelwatch/pkg/config"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "hello")
	assert.Equal(t, "hello", config.GetEnvString("TEST_STRING", "default"))
	assert.Equal(t, "default", config.GetEnvString("TEST_STRING_UNSET", "default"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, config.GetEnvInt("TEST_INT", 7))

	t.Setenv("TEST_INT_BAD", "not-a-number")
	assert.Equal(t, 7, config.GetEnvInt("TEST_INT_BAD", 7))

	assert.Equal(t, 7, config.GetEnvInt("TEST_INT_UNSET", 7))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL_TRUE", "true")
	assert.True(t, config.GetEnvBool("TEST_BOOL_TRUE", false))

	t.Setenv("TEST_BOOL_ONE", "1")
	assert.True(t, config.GetEnvBool("TEST_BOOL_ONE", false))

	t.Setenv("TEST_BOOL_FALSE", "False")
	assert.False(t, config.GetEnvBool("TEST_BOOL_FALSE", true))

	t.Setenv("TEST_BOOL_BAD", "yes")
	assert.True(t, config.GetEnvBool("TEST_BOOL_BAD", true))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "1m30s")
	assert.Equal(t, 90*time.Second, config.GetEnvDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION_BAD", "ninety")
	assert.Equal(t, time.Second, config.GetEnvDuration("TEST_DURATION_BAD", time.Second))

	assert.Equal(t, time.Second, config.GetEnvDuration("TEST_DURATION_UNSET", time.Second))
}
