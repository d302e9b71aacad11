package crosscheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jibrel-network/chain-assets-validator/internal/asset"
	"github.com/jibrel-network/chain-assets-validator/internal/cmcclient"
)

func TestValidateMissingSymbolIsIgnorable(t *testing.T) {
	v := New(map[string]cmcclient.Asset{})
	issues := v.Validate("JNT", "0xAbC")
	require.Len(t, issues, 1)
	assert.Equal(t, "symbol", issues[0].Field)
	assert.True(t, issues[0].Ignorable)
}

func TestValidateMissingPlatformIsIgnorable(t *testing.T) {
	v := New(map[string]cmcclient.Asset{
		"JNT": {Symbol: "JNT"},
	})
	issues := v.Validate("JNT", "0xAbC")
	require.Len(t, issues, 1)
	assert.Equal(t, "platform", issues[0].Field)
}

func TestValidateNonEthPlatformIsIgnorable(t *testing.T) {
	addr, ok := asset.NormalizeAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	require.True(t, ok)
	v := New(map[string]cmcclient.Asset{
		"JNT": {Symbol: "JNT", Platform: &cmcclient.Platform{Symbol: "BSC", TokenAddress: addr}},
	})
	issues := v.Validate("JNT", addr)
	require.Len(t, issues, 1)
	assert.Equal(t, "platform", issues[0].Field)
}

func TestValidateAddressMismatchIsIgnorable(t *testing.T) {
	declared, ok := asset.NormalizeAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	require.True(t, ok)
	other, ok := asset.NormalizeAddress("0x000000000000000000000000000000000000dead")
	require.True(t, ok)

	v := New(map[string]cmcclient.Asset{
		"JNT": {Symbol: "JNT", Platform: &cmcclient.Platform{Symbol: "ETH", TokenAddress: other}},
	})
	issues := v.Validate("JNT", declared)
	require.Len(t, issues, 1)
	assert.Equal(t, "address", issues[0].Field)
}

func TestValidateMatchingAssetHasNoIssues(t *testing.T) {
	addr, ok := asset.NormalizeAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	require.True(t, ok)
	v := New(map[string]cmcclient.Asset{
		"JNT": {Symbol: "JNT", Platform: &cmcclient.Platform{Symbol: "ETH", TokenAddress: addr}},
	})
	issues := v.Validate("JNT", addr)
	assert.Empty(t, issues)
}
