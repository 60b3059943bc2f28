package deck

import (
	"strconv"
	"strings"
)

// Config holds the deck assembler's tunable policy.
type Config struct {
	// FloorCount is the minimum deck size; requested counts below it are
	// raised to it.
	FloorCount int `mapstructure:"floor_count" default:"8"`
	// PoolCapacity bounds each per-source card pool; oldest-fetched cards are
	// evicted first when the bound is exceeded.
	PoolCapacity int `mapstructure:"pool_capacity" default:"500"`
	// MaxAttempts is the fetch attempt ceiling per source per assembly call.
	MaxAttempts int `mapstructure:"max_attempts" default:"4"`
	// FetchMultiplier oversizes fetches to compensate for validation rejects.
	FetchMultiplier int `mapstructure:"fetch_multiplier" default:"3"`
	// FloorLimit is the minimum rows requested per fetch.
	FloorLimit int `mapstructure:"floor_limit" default:"20"`
	// QuickLimit is the per-fetch row cap for the quick (first paint) variant.
	QuickLimit int `mapstructure:"quick_limit" default:"10"`
	// AllowedHosts is the comma-separated allow-list of image hosts.
	AllowedHosts string `mapstructure:"allowed_hosts" default:"datasets-server.huggingface.co"`
	// ExcludedModels is a comma-separated list of model names whose images
	// are dropped during validation.
	ExcludedModels string `mapstructure:"excluded_models" default:""`
	// DisabledSources is a comma-separated list of source ids to skip.
	DisabledSources string `mapstructure:"disabled_sources" default:""`
	// SourceWeights overrides per-source split weights, formatted as
	// "id=weight,id=weight".
	SourceWeights string `mapstructure:"source_weights" default:""`
}

func (c Config) allowedHostSet() map[string]bool {
	return commaSet(c.AllowedHosts)
}

func (c Config) excludedModelSet() map[string]bool {
	return commaSet(c.ExcludedModels)
}

func (c Config) disabledSourceSet() map[string]bool {
	return commaSet(c.DisabledSources)
}

// weightOverrides parses the SourceWeights option. Malformed entries are
// skipped rather than failing startup.
func (c Config) weightOverrides() map[string]float64 {
	out := make(map[string]float64)
	for _, entry := range strings.Split(c.SourceWeights, ",") {
		id, val, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok {
			continue
		}
		w, err := strconv.ParseFloat(val, 64)
		if err != nil || w <= 0 {
			continue
		}
		out[id] = w
	}
	return out
}

func commaSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, item := range strings.Split(s, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out[item] = true
		}
	}
	return out
}
