package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithNoFileOrEnv(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "flogdemo", cfg.App.Name)
	assert.Equal(t, "console", cfg.Backend.Type)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "app:\n  name: custom-app\nserver:\n  port: 9090\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-app", cfg.App.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched fields keep their defaults.
	assert.Equal(t, "console", cfg.Backend.Type)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("FLOGDEMO_APP_NAME", "env-app")
	t.Setenv("FLOGDEMO_SERVER_PORT", "7000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-app", cfg.App.Name)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_KafkaBackendRequiresBrokersAndTopic(t *testing.T) {
	t.Setenv("FLOGDEMO_BACKEND_TYPE", "kafka")

	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("FLOGDEMO_KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("FLOGDEMO_KAFKA_TOPIC", "logs")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Backend.Kafka.Brokers)
	assert.Equal(t, "logs", cfg.Backend.Kafka.Topic)
}

func TestLoad_UnknownBackendTypeIsRejected(t *testing.T) {
	t.Setenv("FLOGDEMO_BACKEND_TYPE", "carrier-pigeon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_OutOfRangePortIsRejected(t *testing.T) {
	t.Setenv("FLOGDEMO_SERVER_PORT", "99999")
	_, err := Load("")
	assert.Error(t, err)
}

func TestGetEnvBool_InvalidValueFallsBackToDefault(t *testing.T) {
	t.Setenv("FLOGDEMO_METRICS_ENABLED", "not-a-bool")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestGetEnvStringSlice_TrimsAndDropsEmpty(t *testing.T) {
	t.Setenv("FLOGDEMO_BACKEND_TYPE", "kafka")
	t.Setenv("FLOGDEMO_KAFKA_TOPIC", "logs")
	t.Setenv("FLOGDEMO_KAFKA_BROKERS", " broker1:9092 , , broker2:9092 ")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Backend.Kafka.Brokers)
}
