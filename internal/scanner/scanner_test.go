package scanner

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	from, to uint64
}

type fakeNode struct {
	calls     []call
	latencies []time.Duration
	errs      []error
	i         int
}

func (f *fakeNode) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.calls = append(f.calls, call{q.FromBlock.Uint64(), q.ToBlock.Uint64()})
	idx := f.i
	f.i++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	return []types.Log{{BlockNumber: q.FromBlock.Uint64()}}, nil
}

func withClock(s *Scanner, times ...time.Time) {
	i := 0
	s.now = func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestScannerExhaustsRange(t *testing.T) {
	node := &fakeNode{}
	s := New(node, common.Address{}, nil, 0, 9, false, WithBatchSize(10))

	recs, ok, err := s.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, recs, 1)

	_, ok, err = s.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScannerShrinksBatchWhenSlow(t *testing.T) {
	node := &fakeNode{}
	s := New(node, common.Address{}, nil, 0, 1_000_000, false, WithBatchSize(100))

	base := time.Unix(0, 0)
	withClock(s, base, base.Add(1000*time.Second))

	_, ok, err := s.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	// The adapted size takes effect on the cursor's next interval.
	lo, hi, more := s.cursor.Next()
	require.True(t, more)
	assert.Equal(t, MinBatchSize, hi-lo+1)
}

func TestScannerGrowsBatchWhenFastCappedByMaxChangeRatio(t *testing.T) {
	node := &fakeNode{}
	s := New(node, common.Address{}, nil, 0, 1_000_000, false, WithBatchSize(100))

	base := time.Unix(0, 0)
	withClock(s, base, base.Add(1*time.Millisecond))

	_, ok, err := s.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	// The adapted size takes effect on the cursor's next interval.
	lo, hi, more := s.cursor.Next()
	require.True(t, more)
	assert.Equal(t, uint64(200), hi-lo+1)
}

func TestScannerRetriesTransientError(t *testing.T) {
	node := &fakeNode{errs: []error{&net.DNSError{IsTimeout: true}, nil}}
	s := New(node, common.Address{}, nil, 0, 99, false, WithBatchSize(50))

	recs, ok, err := s.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, recs, 1)

	assert.Len(t, node.calls, 2)
	assert.Equal(t, node.calls[0].from, node.calls[1].from)
	assert.Less(t, node.calls[1].to, node.calls[0].to)
	assert.Equal(t, uint64(5), s.cursor.Step())
}

func TestScannerPropagatesFatalError(t *testing.T) {
	boom := errors.New("boom")
	node := &fakeNode{errs: []error{boom}}
	s := New(node, common.Address{}, nil, 0, 99, false)

	_, ok, err := s.Next(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestScannerReportsProgress(t *testing.T) {
	node := &fakeNode{}
	var seen []call
	s := New(node, common.Address{}, nil, 0, 9, false, WithBatchSize(10), WithProgress(func(lo, hi uint64) {
		seen = append(seen, call{lo, hi})
	}))

	_, _, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []call{{0, 9}}, seen)
}
