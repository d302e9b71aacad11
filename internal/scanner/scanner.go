// Package scanner walks a contract's event logs over a block range,
// adapting its batch size toward a target per-request latency the way
// the original tool's ThrottledBlockRange/EventIterator pair did, folded
// here into one component that owns both the cursor policy and the
// eth_getLogs calls.
package scanner

import (
	"context"
	"math"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/jibrel-network/chain-assets-validator/internal/blockrange"
	"github.com/jibrel-network/chain-assets-validator/internal/rpcnode"
)

// Defaults, taken from events.py's EventIterator/ThrottledBlockRange
// module constants — the network-facing scan values, not the smaller
// ones blockrange_test.go exercises directly on AdaptiveBlockRange.
const (
	TargetTime           = 2 * time.Second
	MinBatchSize  uint64 = 2
	MaxBatchSize  uint64 = 1_000_000
	SpeedChangeFactor    = 1.0
	ExceptionSpeedFactor = 0.1
	MaxChangeRatio       = 2.0
)

// LogRecord is the node's log entry for a matching event.
type LogRecord struct {
	BlockNumber     uint64
	TransactionHash common.Hash
	Address         common.Address
	Topics          []common.Hash
	Data            []byte
}

func fromEthLog(l types.Log) LogRecord {
	return LogRecord{
		BlockNumber:     l.BlockNumber,
		TransactionHash: l.TxHash,
		Address:         l.Address,
		Topics:          l.Topics,
		Data:            l.Data,
	}
}

// ProgressSink receives a blocks-consumed update after each interval is
// scanned. Optional; pass nil to disable.
type ProgressSink func(lo, hi uint64)

// LogFilterer is the subset of rpcnode.Client the scanner needs; narrowed
// to an interface so tests can drive it with a fake node.
type LogFilterer interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Scanner pulls matching event logs across [from, to] (or descending, if
// reverse), adapting its batch size toward TargetTime.
type Scanner struct {
	node    LogFilterer
	address common.Address
	topics  [][]common.Hash

	cursor   *blockrange.AdaptiveBlockRange
	progress ProgressSink

	now func() time.Time
}

// Option configures a Scanner at construction.
type Option func(*options)

type options struct {
	initialBatch uint64
	progress     ProgressSink
}

// WithProgress registers a sink notified after every scanned interval.
func WithProgress(sink ProgressSink) Option {
	return func(o *options) { o.progress = sink }
}

// WithBatchSize overrides the initial batch size (default MinBatchSize).
func WithBatchSize(n uint64) Option {
	return func(o *options) { o.initialBatch = n }
}

// New builds a Scanner over [from, to] for address, filtered by topics
// (pass nil for "all events").
func New(node LogFilterer, address common.Address, topics [][]common.Hash, from, to uint64, reverse bool, opts ...Option) *Scanner {
	o := &options{initialBatch: MinBatchSize}
	for _, opt := range opts {
		opt(o)
	}

	return &Scanner{
		node:     node,
		address:  address,
		topics:   topics,
		now:      time.Now,
		progress: o.progress,
		cursor:   blockrange.New(from, to, reverse, o.initialBatch),
	}
}

// Next pulls the next batch of logs. ok is false once the range is
// exhausted. err is non-nil only for fatal errors (spec: "other errors
// propagate as fatal") — transient and node-protocol errors are retried
// internally and never surface here.
func (s *Scanner) Next(ctx context.Context) (records []LogRecord, ok bool, err error) {
	for {
		lo, hi, more := s.cursor.Next()
		if !more {
			return nil, false, nil
		}

		start := s.now()
		logs, ferr := s.node.FilterLogs(ctx, ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(lo),
			ToBlock:   new(big.Int).SetUint64(hi),
			Addresses: []common.Address{s.address},
			Topics:    s.topics,
		})
		elapsed := s.now().Sub(start)

		if ferr != nil {
			switch rpcnode.Classify(ferr) {
			case rpcnode.NodeProtocol:
				s.cursor.SetStep(MinBatchSize)
				s.cursor.Rollback()
				select {
				case <-ctx.Done():
					return nil, false, ctx.Err()
				case <-time.After(rpcnode.Backoff):
				}
				continue
			case rpcnode.Transient:
				shrunk := uint64(math.Max(float64(MinBatchSize), float64(s.cursor.Step())*ExceptionSpeedFactor))
				s.cursor.SetStep(shrunk)
				s.cursor.Rollback()
				continue
			default:
				return nil, false, ferr
			}
		}

		s.adaptBatchSize(elapsed)

		if s.progress != nil {
			s.progress(lo, hi)
		}

		out := make([]LogRecord, len(logs))
		for i, l := range logs {
			out[i] = fromEthLog(l)
		}
		return out, true, nil
	}
}

// adaptBatchSize applies the latency-targeting formula after a
// successful call: ratio = (TargetTime / elapsed) * SpeedChangeFactor,
// capped at MaxChangeRatio (mirrors ThrottledBlockRange.update, which
// only clamps the upside — a slow call can shrink the batch size as far
// as the MinBatchSize/MaxBatchSize clamp below allows in one step), new
// size = clamp(current*ratio, MinBatchSize, MaxBatchSize).
func (s *Scanner) adaptBatchSize(elapsed time.Duration) {
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	ratio := (TargetTime.Seconds() / elapsed.Seconds()) * SpeedChangeFactor
	if ratio > MaxChangeRatio {
		ratio = MaxChangeRatio
	}

	current := s.cursor.Step()
	next := uint64(math.Round(float64(current) * ratio))
	if next < MinBatchSize {
		next = MinBatchSize
	}
	if next > MaxBatchSize {
		next = MaxBatchSize
	}
	if next != current {
		s.cursor.SetStep(next)
	}
}
