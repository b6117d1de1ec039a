// Package config loads the settings document (strategy name plus
// per-stage parameters) from a JSON or YAML file, layered with
// environment-variable overrides, into an ingest.Settings.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ntrotner/heap-causal-link/internal/ingest"
)

// EnvPrefix is the prefix every environment-variable override must carry,
// e.g. HEAP_CAUSAL_LINK_STRATEGY or HEAP_CAUSAL_LINK_PARAMETERS_SUBGRAPH_K.
const EnvPrefix = "HEAP_CAUSAL_LINK"

// Load reads settings from path (if non-empty) or from a "settings.yaml"/
// "settings.json" file in the current directory, layered with any
// HEAP_CAUSAL_LINK_* environment variables, and unmarshals the result
// into an ingest.Settings. A missing file is only tolerated when path is
// empty (environment variables and defaults may still produce a usable
// Settings in that case); an explicitly named missing file is an error.
func Load(path string) (ingest.Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows; strategy has no
	// default, so bind it explicitly for Unmarshal to see the override.
	_ = v.BindEnv("strategy")

	v.SetDefault("parameters.matching.similarity_threshold", 0.3)
	v.SetDefault("parameters.subgraph.k", 2)
	v.SetDefault("parameters.subgraph.resolution", 1.0)
	v.SetDefault("parameters.subgraph.seed", 1)
	v.SetDefault("parameters.code_link.max_distance", 10)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("settings")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return ingest.Settings{}, fmt.Errorf("%w: %v", ingest.ErrConfigRead, err)
		}
	}

	var settings ingest.Settings
	if err := v.Unmarshal(&settings); err != nil {
		return ingest.Settings{}, fmt.Errorf("%w: %v", ingest.ErrConfigRead, err)
	}
	return settings, nil
}
