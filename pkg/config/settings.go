package config

import (
	"time"

	"github.com/materials-commons/mcrel/pkg/clog"
)

const (
	KeyBaseURL            = "MCREL_BASE_URL"
	KeyTimeout            = "MCREL_TIMEOUT"
	KeyMaxConcurrentLoads = "MCREL_MAX_CONCURRENT_LOADS"
	KeyLogLevel           = "MCREL_LOG_LEVEL"
	KeyModelLogLevel      = "MCREL_MODEL_LOG_LEVEL"
	KeyTransportLogLevel  = "MCREL_TRANSPORT_LOG_LEVEL"
	KeyDBDriver           = "MCREL_DB_DRIVER"
	KeyDBDSN              = "MCREL_DB_DSN"
	KeyListen             = "MCREL_LISTEN"
	KeyMinBodyLength      = "MCREL_MIN_BODY_LENGTH"
	KeyTxRetry            = "MCREL_TX_RETRY"
)

// Settings is the resolved configuration shared by mcrel and mcreld.
type Settings struct {
	BaseURL            string
	Timeout            time.Duration
	MaxConcurrentLoads int
	LogLevels          map[string]string
	DBDriver           string
	DBDSN              string
	Listen             string
	MinBodyLength      int
	TxRetry            int
}

func LoadSettings(c Configer) Settings {
	s := Settings{
		BaseURL:            c.GetKeyWithDefault(KeyBaseURL, "http://localhost:1353"),
		Timeout:            c.GetDurationKeyWithDefault(KeyTimeout, 30*time.Second),
		MaxConcurrentLoads: c.GetIntKeyWithDefault(KeyMaxConcurrentLoads, 4),
		DBDriver:           c.GetKeyWithDefault(KeyDBDriver, "sqlite"),
		DBDSN:              c.GetKeyWithDefault(KeyDBDSN, "file::memory:?cache=shared"),
		Listen:             c.GetKeyWithDefault(KeyListen, ":1353"),
		MinBodyLength:      c.GetIntKeyWithDefault(KeyMinBodyLength, 5),
		TxRetry:            c.GetIntKeyWithDefault(KeyTxRetry, 3),
		LogLevels: map[string]string{
			clog.GlobalLoggerCtx: c.GetKeyWithDefault(KeyLogLevel, "info"),
		},
	}

	if level := c.GetKey(KeyModelLogLevel); level != "" {
		s.LogLevels[clog.ModelCtx] = level
	}

	if level := c.GetKey(KeyTransportLogLevel); level != "" {
		s.LogLevels[clog.TransportCtx] = level
	}

	if s.TxRetry < 3 {
		s.TxRetry = 3
	}

	return s
}
