package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "kestrel.json")
	payload := `{
		"project_name": "kestrel test",
		"server": {"port": "7007"},
		"redis": {"dns": "localhost:6379"}
	}`
	require.NoError(t, os.WriteFile(file, []byte(payload), 0o644))

	require.NoError(t, InitConfig(file))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "kestrel test", cnf.ProjectName)
	assert.Equal(t, "7007", cnf.Server.Port)
	assert.Equal(t, "localhost:6379", cnf.Redis.Dns)
}

func TestInitConfigEnvOverride(t *testing.T) {
	t.Setenv("KESTREL_REDIS_DNS", "override:6379")
	t.Setenv("KESTREL_SERVER_PORT", "9999")

	require.NoError(t, InitConfig(filepath.Join(t.TempDir(), "missing.json")))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "override:6379", cnf.Redis.Dns)
	assert.Equal(t, "9999", cnf.Server.Port)
}

func TestInitConfigRequiresRedis(t *testing.T) {
	assert.Error(t, InitConfig(filepath.Join(t.TempDir(), "missing.json")))
}

func TestDefaults(t *testing.T) {
	cnf := &Configuration{Redis: RedisConfig{Dns: "localhost:6379"}}
	require.NoError(t, cnf.validateAndAddDefaults())
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, "Kestrel Server", cnf.ProjectName)
}

func TestRateLimitDefaults(t *testing.T) {
	rps := 10.0
	cnf := &Configuration{
		Redis:     RedisConfig{Dns: "localhost:6379"},
		RateLimit: RateLimitConfig{RequestsPerSecond: &rps},
	}
	require.NoError(t, cnf.validateAndAddDefaults())
	require.NotNil(t, cnf.RateLimit.Burst)
	assert.Equal(t, 20, *cnf.RateLimit.Burst)
	require.NotNil(t, cnf.RateLimit.CleanupIntervalSec)
}
