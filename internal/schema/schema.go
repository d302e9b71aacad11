// Package schema is the thin isValidContract-keyword dispatcher: it is
// not a general JSON-schema engine (none exists in this module's
// reference stack), only the fixed-order chain of validators the
// original schema's custom keyword delegates to.
package schema

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jibrel-network/chain-assets-validator/internal/asset"
	"github.com/jibrel-network/chain-assets-validator/internal/crosscheck"
	"github.com/jibrel-network/chain-assets-validator/internal/gasprofile"
	"github.com/jibrel-network/chain-assets-validator/internal/issue"
	"github.com/jibrel-network/chain-assets-validator/internal/shape"
)

// Node is everything the validator chain needs from a chain client.
type Node interface {
	shape.NodeClient
	gasprofile.NodeClient
}

// Dispatcher runs every erc-20 descriptor through the crosscheck, shape,
// and gas-profile validators, in that order, same as the original
// schema's isValidContract keyword.
type Dispatcher struct {
	shapeV      *shape.Validator
	crosscheckV *crosscheck.Validator
	gasV        *gasprofile.Validator
}

// New builds a Dispatcher. crosscheckV may be nil, in which case the
// cross-check stage is skipped entirely (no CoinMarketCap key
// configured).
func New(node Node, fast bool, crosscheckV *crosscheck.Validator, concurrency int) *Dispatcher {
	return &Dispatcher{
		shapeV:      shape.New(node, fast),
		crosscheckV: crosscheckV,
		gasV:        gasprofile.New(node, concurrency),
	}
}

// ValidateEntry runs the full validator chain against one descriptor.
// Non-erc-20 descriptors are skipped (ok=false, nil issues, nil error).
func (d *Dispatcher) ValidateEntry(ctx context.Context, entry asset.Descriptor) (ok bool, issues []issue.Issue, err error) {
	if !entry.IsERC20() {
		return false, nil, nil
	}

	address, valid := asset.NormalizeAddress(entry.BlockchainParams.Address)
	if !valid {
		return true, []issue.Issue{issue.Fatal("address", "invalid address %q", entry.BlockchainParams.Address)}, nil
	}
	addr := common.HexToAddress(address)

	if d.crosscheckV != nil {
		issues = append(issues, d.crosscheckV.Validate(entry.Symbol, address)...)
	}

	shapeIssues, err := d.shapeV.Validate(ctx, addr, entry.BlockchainParams.Decimals)
	if err != nil {
		return true, issues, fmt.Errorf("schema: %s: %w", entry.Label(), err)
	}
	issues = append(issues, shapeIssues...)
	if hasEmptyCode(shapeIssues) {
		// No contract at this address: method/decimals/gas checks all
		// need bytecode to mean anything, so stop here, same as the
		// original's early return after the code-emptiness check.
		return true, issues, nil
	}

	gasIssues, err := d.gasV.Validate(ctx, addr, entry.BlockchainParams.StaticGasAmount, entry.BlockchainParams.DeploymentBlockNumber)
	if err != nil {
		return true, issues, fmt.Errorf("schema: %s: %w", entry.Label(), err)
	}
	issues = append(issues, gasIssues...)

	return true, issues, nil
}

func hasEmptyCode(issues []issue.Issue) bool {
	for _, i := range issues {
		if i.Field == "code" {
			return true
		}
	}
	return false
}

// ValidateAll runs ValidateEntry over every descriptor in entries,
// stopping at the first run error (a node or scan failure) that
// ValidateEntry returns; validation issues, fatal or ignorable, are
// collected per symbol and never stop the loop. Callers
// wanting per-entry ignore suppression should post-process each result
// through a logging.TokenLogger before inspecting it.
func (d *Dispatcher) ValidateAll(ctx context.Context, entries []asset.Descriptor) (map[string][]issue.Issue, error) {
	results := make(map[string][]issue.Issue, len(entries))
	for _, entry := range entries {
		ok, issues, err := d.ValidateEntry(ctx, entry)
		if err != nil {
			return results, err
		}
		if !ok {
			continue
		}
		results[entry.Symbol] = issues
	}
	return results, nil
}
