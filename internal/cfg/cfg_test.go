package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{})        {}
func (noopLogger) Infof(string, ...interface{})         {}
func (noopLogger) Warnf(string, ...interface{})         {}
func (noopLogger) Errorf(error, string, ...interface{}) {}

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "catalog")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_TOPIC", "items-inbound")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(noopLogger{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Http.Port)
	assert.Equal(t, "catalog", cfg.Db.DBName)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "items-inbound", cfg.Kafka.Topic)
	assert.Equal(t, "item-ingestion", cfg.Kafka.GroupID)
	assert.Equal(t, "items", cfg.Qdrant.CollectionName)
	assert.Equal(t, uint64(384), cfg.Qdrant.VectorSize)
	assert.Equal(t, 10*time.Second, cfg.Images.FetchTimeout)
	assert.Equal(t, 3*time.Minute, cfg.Redis.ItemTTL)
	assert.Equal(t, "all-minilm-l6-v2", cfg.Embedder.Model)
}

func TestLoad_MissingKafkaBrokers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KAFKA_BROKERS", "")

	_, err := Load(noopLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_MissingPostgresUser(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POSTGRES_USER", "")

	_, err := Load(noopLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VECTOR_SIZE", "768")
	t.Setenv("COLLECTION_NAME", "catalog-items")
	t.Setenv("ITEM_TTL", "10m")
	t.Setenv("IMAGE_FETCH_TIMEOUT", "3s")

	cfg, err := Load(noopLogger{})
	require.NoError(t, err)

	assert.Equal(t, uint64(768), cfg.Qdrant.VectorSize)
	assert.Equal(t, "catalog-items", cfg.Qdrant.CollectionName)
	assert.Equal(t, 10*time.Minute, cfg.Redis.ItemTTL)
	assert.Equal(t, 3*time.Second, cfg.Images.FetchTimeout)
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMBEDDER_TIMEOUT", "soon")

	_, err := Load(noopLogger{})
	assert.Error(t, err)
}
