package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides are the environment variables that win over the story file.
type envOverrides struct {
	DataDir       string        `env:"SCROLLSTORY_DATA_DIR"`
	LogLevel      string        `env:"SCROLLSTORY_LOG_LEVEL"`
	LogFile       string        `env:"SCROLLSTORY_LOG_FILE"`
	LoaderTimeout time.Duration `env:"SCROLLSTORY_LOADER_TIMEOUT"`
	Debug         bool          `env:"SCROLLSTORY_DEBUG"`
}

func (c *Config) applyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.DataDir != "" {
		c.Loader.DataDir = o.DataDir
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFile != "" {
		c.Logging.File = o.LogFile
	}
	if o.LoaderTimeout > 0 {
		c.Loader.Timeout = o.LoaderTimeout.String()
	}
	if o.Debug {
		c.Logging.DebugMode = true
	}
	return nil
}
