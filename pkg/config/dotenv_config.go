package config

import (
	"os"
	"time"

	"github.com/subosito/gotenv"
)

// DotenvConfig loads a dotenv file into the process environment and reads
// keys from the environment.
type DotenvConfig struct {
	DotenvPath string
}

func NewDotenvConfig(path string) *DotenvConfig {
	return &DotenvConfig{DotenvPath: path}
}

func (c *DotenvConfig) LoadFromPath(path string) error {
	c.DotenvPath = path
	return c.Load()
}

// Load is a no-op without a path so the environment alone can configure
// the client.
func (c *DotenvConfig) Load() error {
	if c.DotenvPath == "" {
		return nil
	}
	return gotenv.Load(c.DotenvPath)
}

func (c *DotenvConfig) GetKey(key string) string {
	return os.Getenv(key)
}

func (c *DotenvConfig) MustGetKey(key string) string {
	return mustGetKey(c.GetKey, key)
}

func (c *DotenvConfig) GetKeyWithDefault(key, defaultValue string) string {
	return getKeyWithDefault(c.GetKey, key, defaultValue)
}

func (c *DotenvConfig) GetIntKey(key string) int {
	return getIntKeyWithDefault(c.GetKey, key, 0)
}

func (c *DotenvConfig) MustGetIntKey(key string) int {
	return mustGetIntKey(c.GetKey, key)
}

func (c *DotenvConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	return getIntKeyWithDefault(c.GetKey, key, defaultValue)
}

func (c *DotenvConfig) GetDurationKeyWithDefault(key string, defaultValue time.Duration) time.Duration {
	return getDurationKeyWithDefault(c.GetKey, key, defaultValue)
}
