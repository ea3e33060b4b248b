package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/materials-commons/mcrel/pkg/clog"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s := LoadSettings(NewMapConfig(nil))

	require.Equal(t, "http://localhost:1353", s.BaseURL)
	require.Equal(t, 30*time.Second, s.Timeout)
	require.Equal(t, 4, s.MaxConcurrentLoads)
	require.Equal(t, "sqlite", s.DBDriver)
	require.Equal(t, 5, s.MinBodyLength)
	require.Equal(t, 3, s.TxRetry)
	require.Equal(t, map[string]string{clog.GlobalLoggerCtx: "info"}, s.LogLevels)
}

func TestLoadSettingsFromMap(t *testing.T) {
	c := NewMapConfig(map[string]string{
		KeyBaseURL:            "http://api.test",
		KeyTimeout:            "1500ms",
		KeyMaxConcurrentLoads: "2",
		KeyTransportLogLevel:  "debug",
		KeyTxRetry:            "1",
	})

	s := LoadSettings(c)

	require.Equal(t, "http://api.test", s.BaseURL)
	require.Equal(t, 1500*time.Millisecond, s.Timeout)
	require.Equal(t, 2, s.MaxConcurrentLoads)
	require.Equal(t, "debug", s.LogLevels[clog.TransportCtx])
	require.Equalf(t, 3, s.TxRetry, "tx retry should never drop below 3")
}

func TestDurationAcceptsSeconds(t *testing.T) {
	c := NewMapConfig(map[string]string{"T": "7", "BAD": "soon"})
	require.Equal(t, 7*time.Second, c.GetDurationKeyWithDefault("T", time.Second))
	require.Equal(t, time.Second, c.GetDurationKeyWithDefault("BAD", time.Second))
}

func TestDotenvConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MCREL_TEST_DOTENV_KEY=from-dotenv\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("MCREL_TEST_DOTENV_KEY") })

	c := NewDotenvConfig("")
	require.NoError(t, c.Load(), "Load without a path should be a no-op")
	require.NoError(t, c.LoadFromPath(path))
	require.Equal(t, "from-dotenv", c.GetKey("MCREL_TEST_DOTENV_KEY"))
	require.Equal(t, "fallback", c.GetKeyWithDefault("MCREL_TEST_DOTENV_MISSING", "fallback"))
}

func TestViperConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcrel.yaml")
	yaml := "MCREL_BASE_URL: http://from-file\nMCREL_MAX_CONCURRENT_LOADS: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

	t.Setenv(KeyBaseURL, "http://from-env")

	c := NewViperConfig(path)
	require.NoError(t, c.Load())

	require.Equalf(t, "http://from-env", c.GetKey(KeyBaseURL), "environment should override the file")
	require.Equal(t, 8, c.GetIntKey(KeyMaxConcurrentLoads))
}

func TestMapConfigLoadFromPathUnsupported(t *testing.T) {
	require.Error(t, NewMapConfig(nil).LoadFromPath("/tmp/x"))
}

func TestInstalledConfig(t *testing.T) {
	prev := GetConfig()
	t.Cleanup(func() { SetConfig(prev) })

	c := NewMapConfig(map[string]string{KeyListen: ":9000", KeyMinBodyLength: "12"})
	SetConfig(c)
	require.Same(t, c, GetConfig())
	require.NoError(t, Load())

	s := GetSettings()
	require.Equal(t, ":9000", s.Listen)
	require.Equal(t, 12, s.MinBodyLength)
}
