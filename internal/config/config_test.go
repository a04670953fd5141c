package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Empty(t, cfg.Database.DatabaseURL, "no database is configured out of the box")
	assert.Equal(t, "https://www.newsec.com/properties", cfg.Scrape.URL)
	assert.Equal(t, "https://nominatim.openstreetmap.org/search", cfg.Geocode.NominatimURL)
	assert.Equal(t, 1.0, cfg.Geocode.RateRPS)
	assert.Equal(t, 4, cfg.Geocode.Workers)
	assert.Equal(t, 50, cfg.Synthetic.Count)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOCINTEL_DATABASE_DATABASE_URL", "postgres://localhost/locintel")
	t.Setenv("LOCINTEL_DATABASE_DRIVER", "sqlite")
	t.Setenv("LOCINTEL_SYNTHETIC_COUNT", "25")
	t.Setenv("LOCINTEL_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/locintel", cfg.Database.DatabaseURL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Synthetic.Count)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	assert.Error(t, err)
}
