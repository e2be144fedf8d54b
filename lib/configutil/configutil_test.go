package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name  string `json:"name"`
	Port  int    `json:"port"`
	Debug bool   `json:"debug"`
}

func TestReadConfigMergesLocalOverrides(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "config.json5")

	err := os.WriteFile(base, []byte(`{
		// comments are allowed
		name: "gradharvest",
		port: 8080,
	}`), 0644)
	require.NoError(t, err)
	err = os.WriteFile(
		filepath.Join(dir, "config.local.json5"),
		[]byte(`{port: 9090, debug: true}`),
		0644,
	)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](base)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "gradharvest", Port: 9090, Debug: true}, cfg)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(
		filepath.Join(dir, "config.local.json5"),
		[]byte(`{name: "local"}`),
		0644,
	)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Name)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))

	cfg, err := ReadConfigOrZero[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.NoError(t, err)
	require.Equal(t, testConfig{}, cfg)
}
