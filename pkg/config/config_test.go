package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg := fromViper(newTestViper())

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, CatalogSourceSeed, cfg.Catalog.Source)
	assert.Empty(t, cfg.Catalog.ReloadSchedule)
	assert.Equal(t, 15*time.Minute, cfg.JWT.MagicLinkTTL)
	assert.Nil(t, cfg.Events.Brokers)
	assert.Equal(t, 2, cfg.Notify.Workers)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "FILE")
	t.Setenv("CATALOG_PATH", "/etc/smartclean/providers.yaml")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("JWT_EXPIRATION", "not-a-duration")
	t.Setenv("MAGIC_LINK_BASE_URL", "https://smartclean.test/verify/")

	cfg := fromViper(newTestViper())

	assert.Equal(t, CatalogSourceFile, cfg.Catalog.Source)
	assert.Equal(t, "/etc/smartclean/providers.yaml", cfg.Catalog.Path)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "https://smartclean.test/verify", cfg.JWT.MagicLinkBaseURL)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , ,b "))
}
