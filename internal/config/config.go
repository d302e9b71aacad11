// Package config loads the settings this module's CLI and Kafka loop
// run with: an optional on-disk settings file, environment variables,
// and the assets_index.json network registry the original tool reads
// from its working directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CMCAPIKeyEnv is the environment variable the CoinMarketCap API key is
// read from (§9 Open Question 3: never compiled in).
const CMCAPIKeyEnv = "CMC_API_KEY"

// Settings is the optional on-disk settings file
// (validator.yaml/validator.yml by convention). The validate and request
// commands do not load it; they take node, ignore, fast, loglevel,
// concurrency and cmc-api-key as flags, and have no flag for
// kafkaBrokers or assetsIndex.
type Settings struct {
	NodeURL         string   `yaml:"node"`
	Ignore          []string `yaml:"ignore"`
	Fast            bool     `yaml:"fast"`
	LogLevel        string   `yaml:"logLevel"`
	Concurrency     int      `yaml:"concurrency"`
	CMCAPIKey       string   `yaml:"cmcApiKey"`
	KafkaBrokers    []string `yaml:"kafkaBrokers"`
	AssetsIndexPath string   `yaml:"assetsIndex"`
}

// LoadSettingsFile reads and parses a YAML settings file. A missing file
// is not an error: it returns a zero-value Settings so callers can layer
// flags and environment variables on top unconditionally.
func LoadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &s, nil
}

// ResolveCMCAPIKey prefers an explicit flag value, then the settings
// file, then the environment variable.
func ResolveCMCAPIKey(flagValue string, fromFile string) string {
	if flagValue != "" {
		return flagValue
	}
	if fromFile != "" {
		return fromFile
	}
	return os.Getenv(CMCAPIKeyEnv)
}

// NetworkEntry is one assets_index.json entry: where to find a
// descriptor list and which node to validate it against.
type NetworkEntry struct {
	Assets string `json:"assets"`
	Node   string `json:"node"`
}

// LoadAssetsIndex parses assets_index.json, keyed by network name.
func LoadAssetsIndex(path string) (map[string]NetworkEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var index map[string]NetworkEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return index, nil
}
