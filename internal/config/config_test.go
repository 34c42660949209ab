package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into an empty directory so no real config file is
// picked up. Tests using it cannot run in parallel.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.EqualValues(t, 32768, cfg.ReadLimit)
	assert.Equal(t, 32, cfg.SendBuffer)
	assert.Equal(t, 10, cfg.EmitLimit)
	assert.Equal(t, time.Second, cfg.EmitInterval)
}

func TestLoad_FileEnvFlags(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	yaml := "api_url: http://file/api\nusername: alice\nuser_id: u1\nsend_buffer: 8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(yaml), 0o644))

	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("SKETCH_USERNAME", "bob")

	cfg, err := Load([]string{"--user_id", "u9", "--join", "ABCD"})
	require.NoError(t, err)
	assert.Equal(t, "http://file/api", cfg.APIURL)
	assert.Equal(t, "bob", cfg.Username)
	assert.Equal(t, "u9", cfg.UserID)
	assert.Equal(t, 8, cfg.SendBuffer)
	assert.Equal(t, "ABCD", cfg.Join)
}

func TestLoad_CreateAndJoinExclusive(t *testing.T) {
	chdir(t)

	_, err := Load([]string{"--create", "A", "--join", "B"})
	require.Error(t, err)
}

func TestLoad_UnknownFlag(t *testing.T) {
	chdir(t)

	_, err := Load([]string{"--nope"})
	require.Error(t, err)
}
