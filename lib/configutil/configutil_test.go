package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Token  string `json:"token"`
	Prefix string `json:"prefix"`
}

func TestLocalVariant(t *testing.T) {
	require.Equal(t, "config.local.json5", localVariant("config.json5"))
	require.Equal(t,
		filepath.Join("dev", "telemetry.local.json5"),
		localVariant(filepath.Join("dev", "telemetry.json5")),
	)
}

func TestReadConfigMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "config.json5")

	require.NoError(t, os.WriteFile(base,
		[]byte(`{token: "", prefix: "!"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"),
		[]byte(`{token: "secret"}`), 0644))

	config, err := ReadConfig[testConfig](base)
	require.NoError(t, err)
	require.Equal(t, "secret", config.Token)
	require.Equal(t, "!", config.Prefix)
}

func TestReadConfigBaseOnly(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "config.json5")
	require.NoError(t, os.WriteFile(base, []byte(`{prefix: "?"}`), 0644))

	config, err := ReadConfig[testConfig](base)
	require.NoError(t, err)
	require.Equal(t, "?", config.Prefix)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}
