package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringSlice("module-path", nil, "")
	fs.String("log-level", "info", "")
	fs.Bool("optimize", true, "")
	fs.Bool("strict", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripthost.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
module_path:
  - /opt/modules
  - /usr/lib/scripthost
extension: .wsm
log_level: DEBUG
strict: true
optimize: false
metrics_file: /tmp/scripthost.prom
max_call_stack: 500
`), 0o600))

	cfg, err := Load(LoadOptions{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"/opt/modules", "/usr/lib/scripthost"}, cfg.ModulePath)
	assert.Equal(t, ".wsm", cfg.Extension)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Strict)
	assert.False(t, cfg.Optimize)
	assert.Equal(t, "/tmp/scripthost.prom", cfg.MetricsFile)
	assert.Equal(t, 500, cfg.MaxCallStack)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_Environment(t *testing.T) {
	dirs := filepath.Join("a", "mods") + string(os.PathListSeparator) + filepath.Join("b", "mods")
	t.Setenv("SCRIPTHOST_MODULE_PATH", dirs)
	t.Setenv("SCRIPTHOST_LOG_FORMAT", "json")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join("a", "mods"), filepath.Join("b", "mods")}, cfg.ModulePath)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_FlagsOverrideFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripthost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\nstrict: true\n"), 0o600))
	t.Setenv("SCRIPTHOST_LOG_LEVEL", "error")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--log-level=debug", "--module-path=/x,/y"}))

	cfg, err := Load(LoadOptions{ConfigFile: path, Flags: fs})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"/x", "/y"}, cfg.ModulePath)
	assert.True(t, cfg.Strict, "unchanged flag must not mask the file")
	assert.True(t, cfg.Optimize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"extension without dot", func(c *Config) { c.Extension = "wasm" }, true},
		{"empty extension", func(c *Config) { c.Extension = "" }, true},
		{"negative stack", func(c *Config) { c.MaxCallStack = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	doc := map[string]any{
		"name":   "median",
		"empty":  "",
		"size":   5,
		"ratio":  float64(3),
		"images": map[string]any{"WorkImage": "in.png"},
	}

	name, err := RequireString(doc, "name")
	require.NoError(t, err)
	assert.Equal(t, "median", name)

	_, err = RequireString(doc, "missing")
	assert.EqualError(t, err, "missing required field: missing")
	_, err = RequireString(doc, "empty")
	assert.EqualError(t, err, "field empty must be non-empty string")

	assert.Equal(t, "x", OptionalString(doc, "empty", "x"))
	assert.Equal(t, 5, OptionalInt(doc, "size", 0))
	assert.Equal(t, 3, OptionalInt(doc, "ratio", 0))
	assert.Equal(t, 7, OptionalInt(doc, "name", 7))
	assert.Equal(t, map[string]any{"WorkImage": "in.png"}, OptionalMap(doc, "images"))
	assert.Nil(t, OptionalMap(doc, "name"))
}
