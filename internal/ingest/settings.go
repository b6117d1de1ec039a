package ingest

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ntrotner/heap-causal-link/internal/domain"
)

// MatchingParams holds the differentiation engine's overridable
// parameters as read from settings.
type MatchingParams struct {
	SimilarityThreshold *float64 `json:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// SubgraphParams holds the partitioner's overridable parameters as read
// from settings.
type SubgraphParams struct {
	K          *int     `json:"k" mapstructure:"k"`
	Resolution *float64 `json:"resolution" mapstructure:"resolution"`
	Seed       *int64   `json:"seed" mapstructure:"seed"`
}

// CodeLinkParams holds the code-link engine's overridable parameters as
// read from settings.
type CodeLinkParams struct {
	MaxDistance *int `json:"max_distance" mapstructure:"max_distance"`
}

// Parameters groups the three stages' parameter blocks.
type Parameters struct {
	Matching  MatchingParams `json:"matching" mapstructure:"matching"`
	Subgraph  SubgraphParams `json:"subgraph" mapstructure:"subgraph"`
	CodeLink  CodeLinkParams `json:"code_link" mapstructure:"code_link"`
}

// Settings is the top-level settings document: which strategy to run, and
// the per-stage parameter overrides.
type Settings struct {
	Strategy   string     `json:"strategy" mapstructure:"strategy"`
	Parameters Parameters `json:"parameters" mapstructure:"parameters"`
}

// ParseSettings validates raw against the embedded Settings schema and
// decodes it.
func ParseSettings(raw []byte) (Settings, error) {
	if err := validate(settingsSchema, raw); err != nil {
		return Settings{}, err
	}
	var s Settings
	if err := unmarshalStrict(raw, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ParseSettingsYAML validates and decodes a YAML-encoded settings document
// by re-marshaling it to JSON and delegating to ParseSettings, so a YAML
// settings file is held to exactly the same schema as a JSON one.
func ParseSettingsYAML(raw []byte) (Settings, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", domain.ErrParsing, err)
	}

	asJSON, err := json.Marshal(generic)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", domain.ErrParsing, err)
	}

	return ParseSettings(asJSON)
}
