package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddressChecksums(t *testing.T) {
	checksum, ok := NormalizeAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	require.True(t, ok)
	assert.Equal(t, "0xA0b86991c6218b36c1D19D4a2e9Eb0cE3606eB48", checksum)
}

func TestNormalizeAddressRejectsInvalid(t *testing.T) {
	_, ok := NormalizeAddress("not-an-address")
	assert.False(t, ok)
}

func TestIsERC20(t *testing.T) {
	d := Descriptor{BlockchainParams: BlockchainParams{Type: "erc-20"}}
	assert.True(t, d.IsERC20())

	d.BlockchainParams.Type = "omni"
	assert.False(t, d.IsERC20())
}

func TestLabel(t *testing.T) {
	d := Descriptor{Name: "Jibrel Network Token", Symbol: "JNT"}
	assert.Equal(t, "Jibrel Network Token (JNT)", d.Label())
}

func TestLoadDescriptorsParsesArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mainnet.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{
			"name": "Jibrel Network Token",
			"symbol": "JNT",
			"blockchainParams": {
				"type": "erc-20",
				"address": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
				"decimals": 18,
				"staticGasAmount": 51000,
				"deploymentBlockNumber": 4395803
			}
		}
	]`), 0o644))

	entries, err := LoadDescriptors(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "JNT", entries[0].Symbol)
	assert.Equal(t, uint8(18), entries[0].BlockchainParams.Decimals)
}
