package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "chat-commands", cfg.KafkaSourceTopic)
	assert.Equal(t, "chat-replies", cfg.KafkaSinkTopic)
	assert.Equal(t, "covid19-tracker-bot", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Empty(t, cfg.RegionsFile)
	assert.Equal(t, "https://api.covid19india.org", cfg.AggregatorBaseURL)
	assert.Equal(t, "https://www.mohfw.gov.in/data/datanew.json", cfg.MinistryAPIURL)
	assert.Equal(t, "https://www.mohfw.gov.in", cfg.MinistrySiteURL)
	assert.Contains(t, cfg.NDMAAPIURL, "arcgis.com")
	assert.Equal(t, MinistrySourceAPI, cfg.MinistryDefaultSource)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 32, cfg.FetchCacheSize)
	assert.Equal(t, 60*time.Second, cfg.FetchCacheTTL)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("REGIONS_FILE", "/etc/bot/regions.yaml")
	t.Setenv("AGGREGATOR_BASE_URL", "http://mirror.local/")
	t.Setenv("MOHFW_API_URL", "http://mohfw.local/data.json")
	t.Setenv("MOHFW_SITE_URL", "http://mohfw.local")
	t.Setenv("NDMA_API_URL", "http://ndma.local/query")
	t.Setenv("MOHFW_DEFAULT_SOURCE", "SITE")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("FETCH_CACHE_SIZE", "8")
	t.Setenv("FETCH_CACHE_TTL", "0s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, "/etc/bot/regions.yaml", cfg.RegionsFile)
	assert.Equal(t, "http://mirror.local", cfg.AggregatorBaseURL)
	assert.Equal(t, "http://mohfw.local/data.json", cfg.MinistryAPIURL)
	assert.Equal(t, "http://mohfw.local", cfg.MinistrySiteURL)
	assert.Equal(t, "http://ndma.local/query", cfg.NDMAAPIURL)
	assert.Equal(t, MinistrySourceSite, cfg.MinistryDefaultSource)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 8, cfg.FetchCacheSize)
	assert.Zero(t, cfg.FetchCacheTTL)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_EmptyBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_InvalidFetchSettings(t *testing.T) {
	tests := []struct {
		env, value string
	}{
		{"FETCH_TIMEOUT", "bad"},
		{"FETCH_TIMEOUT", "0s"},
		{"FETCH_CACHE_TTL", "-1s"},
		{"MOHFW_DEFAULT_SOURCE", "fax"},
		{"AGGREGATOR_BASE_URL", "not a url"},
		{"NDMA_API_URL", "/relative/path"},
	}
	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.env)
		})
	}
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("FETCH_CACHE_SIZE", "-4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.FetchCacheSize)
}
