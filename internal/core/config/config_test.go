package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "Entrega Flash", cfg.Store.LocalTitle)
	assert.Equal(t, 2.0, cfg.Dynamic.Ceiling)
	assert.Equal(t, 2592000, cfg.Google.GeocodeCacheTTLSeconds)
	assert.True(t, cfg.Correios.ContingencyEnabled)
	assert.False(t, cfg.Store.HasOrigin())
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("STORE_LAT", "-18.9186")
	os.Setenv("STORE_LNG", "-48.2772")
	os.Setenv("GOOGLE_MAPS_API_KEY", "AIza-test")
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("STORE_LAT")
		os.Unsetenv("STORE_LNG")
		os.Unsetenv("GOOGLE_MAPS_API_KEY")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.InDelta(t, -18.9186, cfg.Store.Latitude, 1e-9)
	assert.Equal(t, "AIza-test", cfg.Google.APIKey)
	assert.True(t, cfg.Store.HasOrigin())
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
CORREIOS_ENABLED=true
CORREIOS_SERVICES=04014
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.True(t, cfg.Correios.Enabled)
	assert.Equal(t, []string{"04014"}, cfg.Correios.ServiceCodes())
}

// TestCorreiosConfig_ServiceCodes verifies the empty-setting fallback.
func TestCorreiosConfig_ServiceCodes(t *testing.T) {
	cfg := CorreiosConfig{Services: ""}
	assert.Equal(t, []string{"04510", "04014"}, cfg.ServiceCodes())

	cfg = CorreiosConfig{Services: " 04510 , 04782 "}
	assert.Equal(t, []string{"04510", "04782"}, cfg.ServiceCodes())
}

// TestDynamicConfig_ParsePeakPeriods verifies peak window parsing.
func TestDynamicConfig_ParsePeakPeriods(t *testing.T) {
	cfg := DynamicConfig{
		PeakPeriods: "11:30-13:30=1.15=Pico almoço;18:00-21:00=1.2=Pico noturno",
	}

	periods := cfg.ParsePeakPeriods()
	require.Len(t, periods, 2)
	assert.Equal(t, "11:30", periods[0].Start)
	assert.Equal(t, "13:30", periods[0].End)
	assert.Equal(t, 1.15, periods[0].Factor)
	assert.Equal(t, "Pico almoço", periods[0].Label)
	assert.Equal(t, "Pico noturno", periods[1].Label)
}

// TestDynamicConfig_ParsePeakPeriods_Malformed verifies that bad entries are skipped.
func TestDynamicConfig_ParsePeakPeriods_Malformed(t *testing.T) {
	cfg := DynamicConfig{
		PeakPeriods: "garbage;18:00-21:00=not-a-number;08:00-10:00=1.1",
	}

	periods := cfg.ParsePeakPeriods()
	require.Len(t, periods, 1)
	assert.Equal(t, "08:00", periods[0].Start)
	assert.Equal(t, 1.1, periods[0].Factor)
	assert.Equal(t, "Pico", periods[0].Label)
}

// TestDynamicConfig_ParsePeakPeriods_Empty verifies the empty setting.
func TestDynamicConfig_ParsePeakPeriods_Empty(t *testing.T) {
	cfg := DynamicConfig{}
	assert.Nil(t, cfg.ParsePeakPeriods())
}
