// Package gasprofile checks a descriptor's declared static gas amount
// against gas actually spent by plain wallet-to-wallet transfers on
// chain, banding the comparison by hard-fork so a single declared limit
// doesn't spuriously pass or fail across a gas-cost regime change.
package gasprofile

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/jibrel-network/chain-assets-validator/internal/issue"
	"github.com/jibrel-network/chain-assets-validator/internal/quantile"
	"github.com/jibrel-network/chain-assets-validator/internal/receipts"
	"github.com/jibrel-network/chain-assets-validator/internal/scanner"
)

// HardForkBlock is the Byzantium block, LAST_HARD_FORK_BLOCK in the
// original tool — the fixed low band boundary so gas costs before and
// after it are never blended into one percentile.
const HardForkBlock uint64 = 4_370_000

// GasAmountPercentile is gas_amount_percentile in the original tool.
const GasAmountPercentile = 100

// Days-clamped scan policy (spec open question #1): bound worst-case
// scan depth instead of always walking back to deploymentBlockNumber.
// avgBlockTimeSeconds is lifted from get_block_by_date's assumption.
const (
	ScanLookbackDays    = 183
	avgBlockTimeSeconds = 17 * 1.5
	secondsPerDay       = 86400
)

func avgBlocksPerDay() uint64 {
	perDay := secondsPerDay / avgBlockTimeSeconds
	return uint64(perDay)
}

var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// NodeClient is everything the gas-profile scan needs from a node.
type NodeClient interface {
	scanner.LogFilterer
	receipts.NodeClient
	BlockNumber(ctx context.Context) (uint64, error)
}

// Validator checks declared static gas amounts against observed gas use.
type Validator struct {
	node        NodeClient
	concurrency int
}

// New builds a Validator. concurrency is forwarded to the receipt
// fetcher (<=0 uses receipts.DefaultConcurrency).
func New(node NodeClient, concurrency int) *Validator {
	return &Validator{node: node, concurrency: concurrency}
}

// Validate scans the Transfer logs emitted by the token contract at
// address, from max(fromBlock, HardForkBlock, head minus
// ScanLookbackDays of blocks) up to the chain head, keeps the plain
// caller-initiated transfers, bands their gas usage by fork, and flags
// declaredMaxGas if the observed maximum exceeds it.
func (v *Validator) Validate(ctx context.Context, address common.Address, declaredMaxGas, fromBlock uint64) ([]issue.Issue, error) {
	tip, err := v.node.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("gasprofile: %w", err)
	}

	effectiveFrom := fromBlock
	if lookback := avgBlocksPerDay() * ScanLookbackDays; tip > lookback {
		if clamped := tip - lookback; clamped > effectiveFrom {
			effectiveFrom = clamped
		}
	}
	if HardForkBlock > effectiveFrom {
		effectiveFrom = HardForkBlock
	}
	if effectiveFrom > tip {
		effectiveFrom = tip
	}

	digest := quantile.New([]uint64{HardForkBlock, tip})

	sc := scanner.New(v.node, address, [][]common.Hash{{transferTopic}}, effectiveFrom, tip, false)

	hashes := make(chan common.Hash)
	var scanErr error
	go func() {
		defer close(hashes)
		for {
			recs, ok, nextErr := sc.Next(ctx)
			if nextErr != nil {
				scanErr = nextErr
				return
			}
			if !ok {
				return
			}
			for _, r := range recs {
				select {
				case hashes <- r.TransactionHash:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	fetcher := receipts.New(v.node, v.concurrency)
	results, errc := fetcher.Stream(ctx, hashes)

	for res := range results {
		if accepted, amount := acceptedTransfer(res); accepted {
			digest.Update(res.Receipt.BlockNumber.Uint64(), amount)
		}
	}

	if scanErr != nil {
		return nil, fmt.Errorf("gasprofile: scan: %w", scanErr)
	}
	if err := <-errc; err != nil {
		return nil, fmt.Errorf("gasprofile: %w", err)
	}

	observed := digest.MaxPercentile(GasAmountPercentile)
	if observed <= float64(declaredMaxGas) {
		return nil, nil
	}
	return []issue.Issue{issue.Ignorable(
		"staticGasAmount",
		"expected %d gas but %.0f actual (P%d)",
		declaredMaxGas, observed, GasAmountPercentile,
	)}, nil
}

// acceptedTransfer reports whether res is a pure caller-initiated
// transfer: exactly one log, decoding as Transfer with from == the
// transaction's sender, and non-zero gas used.
func acceptedTransfer(res receipts.Result) (ok bool, gasUsed float64) {
	if res.Receipt == nil || res.Transaction == nil {
		return false, 0
	}
	if len(res.Receipt.Logs) != 1 {
		return false, 0
	}
	if res.Receipt.GasUsed == 0 {
		return false, 0
	}

	lg := res.Receipt.Logs[0]
	if len(lg.Topics) != 3 || lg.Topics[0] != transferTopic {
		return false, 0
	}
	logFrom := common.BytesToAddress(lg.Topics[1].Bytes())

	sender, err := senderOf(res.Transaction)
	if err != nil || sender != logFrom {
		return false, 0
	}

	return true, float64(res.Receipt.GasUsed)
}

func senderOf(tx *types.Transaction) (common.Address, error) {
	signer := types.LatestSignerForChainID(tx.ChainId())
	return types.Sender(signer, tx)
}
