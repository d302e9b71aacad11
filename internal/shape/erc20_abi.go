package shape

import (
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Method is one ERC-20 ABI function: its name and Solidity input types,
// enough to compute its 4-byte selector. Embedded as a Go literal rather
// than loaded from a JSON asset file alongside the binary — this module
// ships no data directory of its own.
type Method struct {
	Name   string
	Inputs []string
}

// Signature is the canonical "name(type,type)" string hashed to produce
// a selector.
func (m Method) Signature() string {
	return m.Name + "(" + strings.Join(m.Inputs, ",") + ")"
}

// Selector is the first 4 bytes of keccak256(Signature()).
func (m Method) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(m.Signature()))[:4])
	return sel
}

// ERC20ABI is the standard ERC-20 interface, in the order the original
// tool's erc20_abi.json lists them.
var ERC20ABI = []Method{
	{Name: "name"},
	{Name: "symbol"},
	{Name: "decimals"},
	{Name: "totalSupply"},
	{Name: "balanceOf", Inputs: []string{"address"}},
	{Name: "transfer", Inputs: []string{"address", "uint256"}},
	{Name: "transferFrom", Inputs: []string{"address", "address", "uint256"}},
	{Name: "approve", Inputs: []string{"address", "uint256"}},
	{Name: "allowance", Inputs: []string{"address", "address"}},
}
