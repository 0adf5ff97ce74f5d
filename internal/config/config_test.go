package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 20, cfg.DBPool.MaxOpenConns)
	assert.Equal(t, 10, cfg.DBPool.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.DBPool.ConnMaxLifetime)
	assert.Equal(t, "none", cfg.EventsDriver)
	assert.Equal(t, "database", cfg.SearchDriver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.SectionsCacheTTL)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SECTIONS_CACHE_TTL", "90s")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	cfg := fromViper(v)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 90*time.Second, cfg.SectionsCacheTTL)
}
