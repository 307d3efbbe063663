package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.App.Storage)
	assert.Equal(t, 80, cfg.Ledger.MatchThreshold)
	assert.Equal(t, 60*time.Second, cfg.Summary.CacheTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "openai", cfg.AI.Provider)
}

func TestFromViper_EnteroComoString(t *testing.T) {
	v := viper.New()
	v.Set("FUZZY_MATCH_THRESHOLD", " 90 ")
	v.Set("HTTP_PORT", "9000")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Ledger.MatchThreshold)
	assert.Equal(t, 9000, cfg.HTTP.Port)
}

func TestFromViper_UmbralFueraDeRango(t *testing.T) {
	v := viper.New()
	v.Set("FUZZY_MATCH_THRESHOLD", 150)

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pod", Password: "p@ss:word", DBName: "pods", SSLMode: "disable"}
	assert.Equal(t, "postgres://pod:p%40ss%3Aword@db:5432/pods?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x/y"
	assert.Equal(t, "postgres://x/y", c.ConnectionString())
}
