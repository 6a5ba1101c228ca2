package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadWith runs LoadFromFlags against args with fresh flag and viper state
func loadWith(t *testing.T, args ...string) (*Config, error) {
	t.Helper()

	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		pflag.CommandLine = pflag.NewFlagSet(originalArgs[0], pflag.ExitOnError)
		viper.Reset()
	})

	os.Args = append([]string{"mcp-pdf-form-filler"}, args...)
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	viper.Reset()

	return LoadFromFlags()
}

func TestLoadFromFlags_Defaults(t *testing.T) {
	cfg, err := loadWith(t, "--dir="+t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.False(t, cfg.DoubleSided)
	assert.Equal(t, -1, cfg.SpliceIndex)
	assert.False(t, cfg.LegacySplice)
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoadFromFlags_Flags(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadWith(t,
		"--mode=server", "--host=0.0.0.0", "--port=9090", "--dir="+dir,
		"--loglevel=debug", "--maxfilesize=50000000",
		"--doublesided", "--splice=0", "--legacysplice", "--workers=4",
	)
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
	assert.Equal(t, dir, cfg.PDFDirectory)
	assert.True(t, cfg.IsDebug())
	assert.Equal(t, int64(50000000), cfg.MaxFileSize)
	assert.True(t, cfg.DoubleSided)
	assert.Equal(t, 0, cfg.SpliceIndex)
	assert.True(t, cfg.LegacySplice)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MCP_PDF_FORM_MODE", "server")
	t.Setenv("MCP_PDF_FORM_PORT", "3000")
	t.Setenv("MCP_PDF_FORM_DIR", dir)
	t.Setenv("MCP_PDF_FORM_LOGLEVEL", "warn")
	t.Setenv("MCP_PDF_FORM_DOUBLESIDED", "true")
	t.Setenv("MCP_PDF_FORM_SPLICE", "1")
	t.Setenv("MCP_PDF_FORM_WORKERS", "8")

	cfg, err := loadWith(t)
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, dir, cfg.PDFDirectory)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.DoubleSided)
	assert.Equal(t, 1, cfg.SpliceIndex)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	t.Setenv("MCP_PDF_FORM_MODE", "server")
	t.Setenv("MCP_PDF_FORM_WORKERS", "8")

	cfg, err := loadWith(t, "--mode=stdio", "--workers=2", "--dir="+t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadFromFlags_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "mode", args: []string{"--mode=invalid"}, wantErr: "mode must be either 'stdio' or 'server'"},
		{name: "port", args: []string{"--mode=server", "--port=99999"}, wantErr: "port must be between 1 and 65535"},
		{name: "log level", args: []string{"--loglevel=invalid"}, wantErr: "invalid log level"},
		{name: "workers", args: []string{"--workers=0"}, wantErr: "workers must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadWith(t, append(tt.args, "--dir="+t.TempDir())...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	_, err := loadWith(t, "--version")
	require.Error(t, err)
	assert.Equal(t, "version requested", err.Error())
}
