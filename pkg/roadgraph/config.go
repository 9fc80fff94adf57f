package roadgraph

import (
	"github.com/spf13/viper"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
)

// DefaultMaxDistSquared is near exact coincidence in raw degree units
// (about 3 cm at Melbourne's latitude).
const DefaultMaxDistSquared = 1e-13

type Config struct {
	// MaxDistSquared proximity edge threshold in squared raw coordinate units, inclusive.
	MaxDistSquared float64
}

func DefaultConfig() Config {
	return Config{MaxDistSquared: DefaultMaxDistSquared}
}

// ConfigFromViper reads join.max_dist_squared.
func ConfigFromViper() Config {
	cfg := DefaultConfig()
	if viper.IsSet(util.ConfigMaxDistSquared) {
		cfg.MaxDistSquared = viper.GetFloat64(util.ConfigMaxDistSquared)
	}
	return cfg
}
