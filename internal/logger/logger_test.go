package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithServiceName(t *testing.T) {
	t.Setenv("SERVICE_NAME", "car-advisor-api")

	f := withServiceName(nil)
	assert.Equal(t, "car-advisor-api", f["service_name"])

	f = withServiceName(Fields{"service_name": "insights"})
	assert.Equal(t, "insights", f["service_name"])
}

func TestInitFromEnvFallsBackToConfiguredLevel(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	t.Setenv("LOG_LEVEL", "")
	InitFromEnv("LOG_LEVEL", "debug")
	assert.NotNil(t, Log)
	assert.NotPanics(t, func() { DebugWithFields("debug enabled", Fields{"k": "v"}) })
}
