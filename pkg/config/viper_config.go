package config

import (
	"time"

	"github.com/spf13/viper"
)

// ViperConfig reads a yaml, json or toml config file. Environment variables
// with the same (upper case) name override file values.
type ViperConfig struct {
	ConfigPath string
	v          *viper.Viper
}

func NewViperConfig(path string) *ViperConfig {
	v := viper.New()
	v.AutomaticEnv()
	return &ViperConfig{ConfigPath: path, v: v}
}

func (c *ViperConfig) LoadFromPath(path string) error {
	c.ConfigPath = path
	return c.Load()
}

func (c *ViperConfig) Load() error {
	if c.ConfigPath == "" {
		return nil
	}

	c.v.SetConfigFile(c.ConfigPath)
	return c.v.ReadInConfig()
}

func (c *ViperConfig) GetKey(key string) string {
	return c.v.GetString(key)
}

func (c *ViperConfig) MustGetKey(key string) string {
	return mustGetKey(c.GetKey, key)
}

func (c *ViperConfig) GetKeyWithDefault(key, defaultValue string) string {
	return getKeyWithDefault(c.GetKey, key, defaultValue)
}

func (c *ViperConfig) GetIntKey(key string) int {
	return getIntKeyWithDefault(c.GetKey, key, 0)
}

func (c *ViperConfig) MustGetIntKey(key string) int {
	return mustGetIntKey(c.GetKey, key)
}

func (c *ViperConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	return getIntKeyWithDefault(c.GetKey, key, defaultValue)
}

func (c *ViperConfig) GetDurationKeyWithDefault(key string, defaultValue time.Duration) time.Duration {
	return getDurationKeyWithDefault(c.GetKey, key, defaultValue)
}
