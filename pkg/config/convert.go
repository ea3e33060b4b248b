package config

import (
	"strconv"
	"time"

	"github.com/apex/log"
)

// The typed getters of every Configer are built from its GetKey.

func mustGetKey(get func(string) string, key string) string {
	val := get(key)
	if val == "" {
		log.Fatalf("No such required config key: '%s'", key)
	}

	return val
}

func getKeyWithDefault(get func(string) string, key, defaultValue string) string {
	if val := get(key); val != "" {
		return val
	}

	return defaultValue
}

func getIntKeyWithDefault(get func(string) string, key string, defaultValue int) int {
	intVal, err := strconv.Atoi(get(key))
	if err != nil {
		return defaultValue
	}

	return intVal
}

func mustGetIntKey(get func(string) string, key string) int {
	intVal, err := strconv.Atoi(get(key))
	if err != nil {
		log.Fatalf("Required config key either doesn't exist or isn't an int: '%s': %s", key, err)
	}

	return intVal
}

// getDurationKeyWithDefault accepts a Go duration ("1500ms") or a plain
// number of seconds.
func getDurationKeyWithDefault(get func(string) string, key string, defaultValue time.Duration) time.Duration {
	val := get(key)
	if val == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(val); err == nil {
		return d
	}

	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
