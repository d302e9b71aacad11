// Package receipts resolves transaction hashes observed in scanned logs
// into joined (receipt, transaction) pairs, using a bounded worker pool
// with unordered completion — the Go shape of the original tool's
// EventReceiptIterator, which used a Python ThreadPoolExecutor and
// as_completed over the same join.
package receipts

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency matches EventReceiptIterator's concurrency=100.
const DefaultConcurrency = 100

// NodeClient is the subset of rpcnode.Client a Fetcher needs.
type NodeClient interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error)
}

// Result is one joined receipt/transaction pair.
type Result struct {
	Receipt     *types.Receipt
	Transaction *types.Transaction
}

// Fetcher resolves transaction hashes with bounded concurrency.
type Fetcher struct {
	node        NodeClient
	concurrency int
}

// New builds a Fetcher. concurrency <= 0 falls back to DefaultConcurrency.
func New(node NodeClient, concurrency int) *Fetcher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Fetcher{node: node, concurrency: concurrency}
}

// Stream consumes distinct hashes from src (closed by the caller once
// exhausted) and returns a channel of joined results plus a channel that
// carries at most one error once all in-flight work has drained.
//
// Backpressure: dispatch blocks once concurrency in-flight tasks are
// outstanding, so src is never read further ahead than that. Cancelling
// ctx stops new dispatch and causes in-flight tasks to discard their
// result instead of blocking on a consumer that has stopped pulling;
// that cancellation itself is not reported as an error.
func (f *Fetcher) Stream(ctx context.Context, src <-chan common.Hash) (<-chan Result, <-chan error) {
	out := make(chan Result)
	errc := make(chan error, 1)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(f.concurrency)

	go func() {
		defer close(out)
		defer close(errc)

		seen := make(map[common.Hash]struct{})

	dispatch:
		for {
			select {
			case <-egCtx.Done():
				break dispatch
			case hash, ok := <-src:
				if !ok {
					break dispatch
				}
				if _, dup := seen[hash]; dup {
					continue
				}
				seen[hash] = struct{}{}

				eg.Go(func() error {
					return f.resolve(egCtx, hash, out)
				})
			}
		}

		if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			errc <- err
		}
	}()

	return out, errc
}

func (f *Fetcher) resolve(ctx context.Context, hash common.Hash, out chan<- Result) error {
	receipt, err := f.node.TransactionReceipt(ctx, hash)
	if err != nil {
		return err
	}
	tx, err := f.node.TransactionByHash(ctx, hash)
	if err != nil {
		return err
	}

	select {
	case out <- Result{Receipt: receipt, Transaction: tx}:
	case <-ctx.Done():
	}
	return nil
}
