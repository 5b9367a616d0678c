package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	assert.Equal(t, "https://gargash-auto.onrender.com", c.Gateway.BaseURL)
	assert.Equal(t, 12*time.Second, c.Gateway.Timeout())
	assert.Equal(t, "memory", c.Storage.Backend)
	assert.Equal(t, 800*time.Millisecond, c.Chat.TypingDelay())
	assert.False(t, c.Events.Enabled)
	assert.Equal(t, "car-advisor-insights", c.Events.GroupID)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ADVISOR_API_BASE_URL", "http://localhost:9000")
	t.Setenv("ADVISOR_API_TIMEOUT_SECONDS", "3")
	t.Setenv("STORAGE_BACKEND", " Redis ")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "kafka:9092")
	t.Setenv("GEMINI_API_KEY", "secret")

	c := Defaults()
	applyEnv(&c)
	c.normalize()

	assert.Equal(t, "http://localhost:9000", c.Gateway.BaseURL)
	assert.Equal(t, 3*time.Second, c.Gateway.Timeout())
	assert.Equal(t, "redis", c.Storage.Backend)
	assert.True(t, c.Events.Enabled)
	assert.Equal(t, "kafka:9092", c.Events.Brokers)
	assert.Equal(t, "secret", c.Gemini.APIKey)
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	var c AppConfig
	c.Chat.TypingDelayMillis = -5
	c.normalize()

	assert.Equal(t, "memory", c.Storage.Backend)
	assert.Equal(t, 12, c.Gateway.TimeoutSeconds)
	assert.Equal(t, 10*time.Second, c.Chat.ReplyTimeout())
	assert.Zero(t, c.Chat.TypingDelay())
	assert.Equal(t, time.Hour, c.Storage.TTL())
	assert.Equal(t, "car-advisor-insights", c.Events.GroupID)
}

func TestYAMLNeverCarriesAPIKey(t *testing.T) {
	c := Defaults()
	c.Gemini.APIKey = "secret"
	out, err := yaml.Marshal(c)
	assert.NoError(t, err)
	assert.NotContains(t, string(out), "secret")

	var back AppConfig
	assert.NoError(t, yaml.Unmarshal([]byte("gemini:\n  model: m\n  apikey: leaked\n"), &back))
	assert.Empty(t, back.Gemini.APIKey)
	assert.Equal(t, "m", back.Gemini.Model)
}
