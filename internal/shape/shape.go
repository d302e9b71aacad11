// Package shape checks that a descriptor's address actually carries
// ERC-20-shaped bytecode: every interface method's selector present,
// invokable where invoking is cheap and safe, and decimals agreeing
// with the descriptor's declared value.
package shape

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/jibrel-network/chain-assets-validator/internal/issue"
)

// NodeClient is everything the shape check needs from a node.
type NodeClient interface {
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// Validator checks a descriptor's address against ERC20ABI.
type Validator struct {
	node NodeClient
	fast bool
}

// New builds a Validator. In fast mode, eth_call probes of no-input,
// non-decimals methods are skipped; only the bytecode/selector and
// decimals checks run.
func New(node NodeClient, fast bool) *Validator {
	return &Validator{node: node, fast: fast}
}

// Validate runs the bytecode/selector/decimals/invocation checks against
// address. declaredDecimals is the descriptor's claimed decimals.
func (v *Validator) Validate(ctx context.Context, address common.Address, declaredDecimals uint8) ([]issue.Issue, error) {
	code, err := v.node.CodeAt(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("shape: %w", err)
	}
	if len(code) == 0 {
		return []issue.Issue{issue.Fatal("code", "no contract code at %s", address.Hex())}, nil
	}
	hexCode := hex.EncodeToString(code)

	var issues []issue.Issue
	for _, m := range ERC20ABI {
		sel := m.Selector()
		if !strings.Contains(hexCode, hex.EncodeToString(sel[:])) {
			issues = append(issues, issue.Ignorable(m.Name, "selector 0x%x not found in bytecode", sel))
			continue
		}

		if m.Name == "decimals" {
			issues = append(issues, v.checkDecimals(ctx, address, sel, declaredDecimals)...)
			continue
		}

		if v.fast || len(m.Inputs) > 0 {
			continue
		}
		if _, callErr := v.node.CallContract(ctx, ethereum.CallMsg{To: &address, Data: sel[:]}); callErr != nil {
			issues = append(issues, issue.Ignorable(m.Name, "call failed: %v", callErr))
		}
	}
	return issues, nil
}

// checkDecimals always invokes decimals(), regardless of fast mode: a
// call failure is ignorable, but a value mismatch is fatal.
func (v *Validator) checkDecimals(ctx context.Context, address common.Address, sel [4]byte, declared uint8) []issue.Issue {
	result, err := v.node.CallContract(ctx, ethereum.CallMsg{To: &address, Data: sel[:]})
	if err != nil {
		return []issue.Issue{issue.Ignorable("decimals", "call failed: %v", err)}
	}
	observed := new(big.Int).SetBytes(result).Uint64()
	if observed != uint64(declared) {
		return []issue.Issue{issue.Fatal("decimals", "expected %d but chain reports %d", declared, observed)}
	}
	return nil
}
