package config

import (
	"testing"
	"time"

	"github.com/piwi3910/cutplan/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "LOG_PRETTY", "CORS_ORIGINS", "REQUEST_TIMEOUT", "MAX_PIECES", "DEFAULT_KERF", "MAX_SHEETS", "WORKERS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, 5000, cfg.Plan.MaxPieces)
	assert.Equal(t, 3, cfg.Plan.DefaultKerf)
	assert.Equal(t, model.DefaultMaxSheets, cfg.Plan.MaxSheets)
	assert.Equal(t, 0, cfg.Plan.Workers)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("CORS_ORIGINS", "https://shop.example.com, ,https://cad.example.com")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("MAX_PIECES", "200")
	t.Setenv("DEFAULT_KERF", "4")
	t.Setenv("MAX_SHEETS", "20")
	t.Setenv("WORKERS", "2")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"https://shop.example.com",
		"https://cad.example.com",
	}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, PlanConfig{MaxPieces: 200, DefaultKerf: 4, MaxSheets: 20, Workers: 2}, cfg.Plan)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_PIECES", "lots")
	t.Setenv("LOG_PRETTY", "sometimes")
	t.Setenv("REQUEST_TIMEOUT", "30")

	cfg := Load()
	assert.Equal(t, 5000, cfg.Plan.MaxPieces)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
}

func TestPlanConfig_Settings(t *testing.T) {
	s := PlanConfig{DefaultKerf: 2, MaxSheets: 10, Workers: 3}.Settings()
	assert.Equal(t, 2, s.Kerf)
	assert.Equal(t, 10, s.MaxSheets)
	assert.Equal(t, 3, s.Workers)
	assert.True(t, s.AllowRotation)
	assert.Zero(t, s.MaxAttempts, "attempt ceiling scales with the job")

	// Out-of-range values keep the built-in defaults.
	s = PlanConfig{DefaultKerf: 25, MaxSheets: 0}.Settings()
	assert.Equal(t, model.DefaultSettings().Kerf, s.Kerf)
	assert.Equal(t, model.DefaultMaxSheets, s.MaxSheets)
	assert.Equal(t, 0, s.Workers)
}
