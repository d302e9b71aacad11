// Package asset holds the read-only descriptor type validated against
// chain state, mirroring the asset JSON schema entries the original
// jwallet-assets-tools validates.
package asset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// BlockchainParams is the chain-specific portion of a Descriptor.
type BlockchainParams struct {
	Type                  string `json:"type" yaml:"type"`
	Address               string `json:"address" yaml:"address"`
	Decimals              uint8  `json:"decimals" yaml:"decimals"`
	StaticGasAmount       uint64 `json:"staticGasAmount" yaml:"staticGasAmount"`
	DeploymentBlockNumber uint64 `json:"deploymentBlockNumber" yaml:"deploymentBlockNumber"`
}

// Descriptor is a single curated-registry entry.
type Descriptor struct {
	Name             string           `json:"name" yaml:"name"`
	Symbol           string           `json:"symbol" yaml:"symbol"`
	BlockchainParams BlockchainParams `json:"blockchainParams" yaml:"blockchainParams"`
	// Ignore carries the per-entry `isValidContract.ignore` list from the
	// asset schema; it is unioned with the CLI-level ignore list.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// TypeERC20 is the only BlockchainParams.Type this module processes;
// others are skipped silently (spec: "Only type == erc-20 descriptors
// are processed").
const TypeERC20 = "erc-20"

// IsERC20 reports whether d should be processed by the erc-20 validators.
func (d Descriptor) IsERC20() bool {
	return d.BlockchainParams.Type == TypeERC20
}

// Label renders the "name (symbol)" form used throughout CLI/log output.
func (d Descriptor) Label() string {
	return d.Name + " (" + d.Symbol + ")"
}

// NormalizeAddress converts addr to its EIP-55 checksum form. It returns
// ok=false if addr is not a syntactically valid 20-byte hex address.
func NormalizeAddress(addr string) (checksum string, ok bool) {
	trimmed := strings.TrimSpace(addr)
	if !common.IsHexAddress(trimmed) {
		return "", false
	}
	return common.HexToAddress(trimmed).Hex(), true
}

// LoadDescriptors reads a descriptor-list file (the original's
// per-network assets JSON, e.g. assets/mainnet.json): a JSON array of
// Descriptor entries.
func LoadDescriptors(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}
	var entries []Descriptor
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("asset: parse %s: %w", path, err)
	}
	return entries, nil
}
