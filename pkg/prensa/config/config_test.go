package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prensa-cms/prensa/pkg/prensa/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.SeedDemo)
}

func TestLoadWithOptions(t *testing.T) {
	cfg, err := config.Load(
		config.WithPort("9000"),
		config.WithEnvironment("testing"),
		config.WithLogLevel("debug"),
		config.WithMediaDir(t.TempDir()),
		config.WithSeedDemo(false),
	)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "testing", cfg.Environment)
	assert.False(t, cfg.SeedDemo)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SEED_DEMO", "false")

	cfg, err := config.Load(config.WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.SeedDemo)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PORT", "3000")

	cfg, err := config.Load(config.WithEnv(), config.WithPort("4000"))
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		options []config.Option
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			options: nil,
			wantErr: false,
		},
		{
			name:    "unknown environment",
			options: []config.Option{config.WithEnvironment("staging")},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			options: []config.Option{config.WithLogLevel("loud")},
			wantErr: true,
		},
		{
			name:    "production requires a real jwt secret",
			options: []config.Option{config.WithEnvironment("production")},
			wantErr: true,
		},
		{
			name: "production with explicit secret",
			options: []config.Option{
				config.WithEnvironment("production"),
				config.WithJWTSecret("a-real-secret"),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(tt.options...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildService(t *testing.T) {
	cfg, err := config.Load(config.WithMediaDir(t.TempDir()))
	require.NoError(t, err)

	svc, err := cfg.BuildService()
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
