package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// cliConfig holds llamactl's own defaults, loaded from an optional YAML
// file and overridable by environment variables, the way
// junjiewwang-perf-analysis's pkg/config.Load layers viper over a struct
// via mapstructure tags.
type cliConfig struct {
	DBDir    string `mapstructure:"db_dir"`
	LogLevel string `mapstructure:"log_level"`
}

// loadCLIConfig reads cfgFile (if non-empty) into a cliConfig, falling
// back to built-in defaults when no file is given or none is found at the
// standard search paths.
func loadCLIConfig(cfgFile string) (cliConfig, error) {
	v := viper.New()
	v.SetDefault("db_dir", ".")
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("llamactl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.llamactl")
		v.AddConfigPath("/etc/llamactl")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cliConfig{}, fmt.Errorf("llamactl: read config: %w", err)
		}
	}
	v.SetEnvPrefix("LLAMACTL")
	v.AutomaticEnv()

	var cfg cliConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cliConfig{}, fmt.Errorf("llamactl: unmarshal config: %w", err)
	}
	return cfg, nil
}
