// Package blockrange implements the adaptive block-interval cursor the
// scanner walks a chain with. It is a straight port of the Python
// VariableBlockRange generator (jwallet_tools/blockexplorer/blockrange.py)
// into an explicit state object: no goroutine or generator is needed, just
// a struct whose Next/SetStep/Rollback methods mirror the original's
// __iter__/set_step/rollback.
package blockrange

// AdaptiveBlockRange emits a lazy, mutable-step sequence of closed block
// intervals covering [from, to] (or [to, from] descending if reverse).
//
// Not safe for concurrent use — it has exactly one owner, the scanner
// driving it.
type AdaptiveBlockRange struct {
	cursor  uint64 // next interval's anchor (python: self.from_block)
	fixedTo uint64 // fixed target boundary (python: self.to_block)
	forward bool

	step        uint64
	pendingStep *uint64 // python: self.new_batch_size
	rollback    bool    // python: self.reset_next

	initialized bool
	exhausted   bool

	lastLo, lastHi uint64
}

// New builds a cursor over [from, to] (from <= to). If reverse, intervals
// are emitted descending from to toward from. batchSize is the initial
// step; it must be >= 1.
func New(from, to uint64, reverse bool, batchSize uint64) *AdaptiveBlockRange {
	r := &AdaptiveBlockRange{step: batchSize, forward: !reverse}
	if reverse {
		r.cursor, r.fixedTo = to, from
	} else {
		r.cursor, r.fixedTo = from, to
	}
	return r
}

// Step reports the batch size currently in effect.
func (r *AdaptiveBlockRange) Step() uint64 { return r.step }

// SetStep takes effect on the next emission. A no-op if n equals the
// current step.
func (r *AdaptiveBlockRange) SetStep(n uint64) {
	if n == r.step {
		return
	}
	r.pendingStep = &n
}

// Rollback causes the next emission to repeat the interval just produced.
// Only one rollback may be pending at a time; calling it again before the
// next Next() simply keeps the flag set.
func (r *AdaptiveBlockRange) Rollback() {
	r.rollback = true
}

// emit computes the interval anchored at the current cursor and step,
// clipped to fixedTo.
func (r *AdaptiveBlockRange) emit() (lo, hi uint64) {
	if r.forward {
		hi = r.cursor + r.step - 1
		if hi > r.fixedTo {
			hi = r.fixedTo
		}
		return r.cursor, hi
	}

	if r.step > r.cursor {
		lo = 0
	} else {
		lo = r.cursor - r.step + 1
	}
	if lo < r.fixedTo {
		lo = r.fixedTo
	}
	return lo, r.cursor
}

// Next yields the next interval. ok is false once the cursor has passed
// the end (forward) or fallen to/below the start (reverse).
func (r *AdaptiveBlockRange) Next() (lo, hi uint64, ok bool) {
	if r.exhausted {
		return 0, 0, false
	}

	if !r.initialized {
		r.initialized = true
		lo, hi = r.emit()
		r.lastLo, r.lastHi = lo, hi
		return lo, hi, true
	}

	if r.rollback {
		r.rollback = false
		if r.pendingStep != nil {
			r.step, r.pendingStep = *r.pendingStep, nil
		}
		lo, hi = r.emit()
		r.lastLo, r.lastHi = lo, hi
		return lo, hi, true
	}

	if r.forward {
		r.cursor += r.step
	} else if r.step > r.cursor {
		r.cursor = 0 // would go below block 0: the walk is finished
	} else {
		r.cursor -= r.step
	}
	if r.pendingStep != nil {
		r.step, r.pendingStep = *r.pendingStep, nil
	}

	if r.forward && r.cursor > r.fixedTo {
		r.exhausted = true
		// Never actually reached: the clip in emit() always lands the
		// final forward interval's hi exactly on fixedTo. Kept for
		// fidelity with the original's symmetric reverse-mode tail check.
		if r.cursor < r.fixedTo {
			return r.lastLo, r.fixedTo, true
		}
		return 0, 0, false
	}
	if !r.forward && r.cursor <= r.fixedTo {
		r.exhausted = true
		// Degenerate tail: when the original span's low end is 0, the
		// descending walk can finish one block short of it. Preserved
		// intentionally — see spec open question on reverse-range tails.
		if r.fixedTo != r.lastLo {
			return r.fixedTo + 1, r.lastLo, true
		}
		return 0, 0, false
	}

	lo, hi = r.emit()
	r.lastLo, r.lastHi = lo, hi
	return lo, hi, true
}
