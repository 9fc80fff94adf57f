package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	ConfigMaxDistSquared = "join.max_dist_squared"
	ConfigLogLevel       = "log.level"
	ConfigServerPort     = "server.port"
	ConfigServerTimeout  = "server.timeout"
	ConfigRateLimit      = "server.rate_limit"
	ConfigRateBurst      = "server.rate_burst"
	ConfigRenderWidth    = "render.width"
	ConfigRenderHeight   = "render.height"
)

func setDefaults() {
	viper.SetDefault(ConfigMaxDistSquared, 1e-13)
	viper.SetDefault(ConfigLogLevel, "info")
	viper.SetDefault(ConfigServerPort, 6060)
	viper.SetDefault(ConfigServerTimeout, "30s")
	viper.SetDefault(ConfigRateLimit, 20.0)
	viper.SetDefault(ConfigRateBurst, 40)
	viper.SetDefault(ConfigRenderWidth, 1024)
	viper.SetDefault(ConfigRenderHeight, 1024)
}

// ReadConfig loads config.yaml from ./data/ or the working directory, or from
// configFile when given. a missing default config file is not an error.
// environment variables ROADGRAPH_<KEY> override file values.
func ReadConfig(configFile string) error {
	setDefaults()

	viper.SetEnvPrefix("ROADGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./data/")
		viper.AddConfigPath(".")
	}

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
