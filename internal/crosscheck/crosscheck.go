// Package crosscheck compares a descriptor's declared address against
// an independently sourced symbol->address map (CoinMarketCap). All
// findings are ignorable: an ignore-list entry for the field suppresses
// them; otherwise they fail the descriptor like any other issue.
package crosscheck

import (
	"github.com/jibrel-network/chain-assets-validator/internal/asset"
	"github.com/jibrel-network/chain-assets-validator/internal/cmcclient"
	"github.com/jibrel-network/chain-assets-validator/internal/issue"
)

const expectedPlatform = "ETH"

// Validator holds a pre-fetched symbol map; build a fresh one whenever
// the map should be refreshed (the original tool loads it once per
// ContractValidator construction).
type Validator struct {
	assets map[string]cmcclient.Asset
}

// New builds a Validator over an already-fetched asset map.
func New(assets map[string]cmcclient.Asset) *Validator {
	return &Validator{assets: assets}
}

// Validate compares symbol/address against the cross-check map.
// address must already be EIP-55 normalized (asset.NormalizeAddress).
func (v *Validator) Validate(symbol, address string) []issue.Issue {
	cmcAsset, ok := v.assets[symbol]
	if !ok {
		return []issue.Issue{issue.Ignorable("symbol", "no %s symbol found in coinmarketcap mapping", symbol)}
	}

	if cmcAsset.Platform == nil {
		return []issue.Issue{issue.Ignorable("platform", "no platform info for %s symbol", symbol)}
	}

	var issues []issue.Issue
	if cmcAsset.Platform.Symbol != expectedPlatform {
		issues = append(issues, issue.Ignorable(
			"platform",
			"symbol %s expected to be on ETH blockchain but on %s instead",
			symbol, cmcAsset.Platform.Symbol,
		))
	}

	cmcAddress, ok := asset.NormalizeAddress(cmcAsset.Platform.TokenAddress)
	if !ok || cmcAddress != address {
		issues = append(issues, issue.Ignorable(
			"address",
			"contract address %s differs from coinmarketcap one: %s",
			address, cmcAsset.Platform.TokenAddress,
		))
	}

	return issues
}
