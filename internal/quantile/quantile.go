// Package quantile implements a banded approximate quantile sketch: one
// digest per block-number band, so a gas-profile scan can isolate
// hard-fork gas-regime changes instead of blending samples across them.
//
// No quantile-sketch library (t-digest, HDR histogram, or equivalent)
// exists anywhere in the reference corpus this module was built from, so
// this is hand-written rather than wired to a third-party dependency —
// see DESIGN.md. It trades the original Python tool's streaming
// centroid-merging t-digest for a sorted-sample estimator per band,
// since gas-profile scans size samples in the thousands, not millions,
// and don't need true streaming-merge properties.
package quantile

import "sort"

// Default tunables carried from the original's RangedTDigest, even
// though this sketch doesn't use them for centroid compression; they're
// preserved as the documented accuracy budget for a future swap to a
// true streaming digest.
const (
	DefaultDelta = 0.01
	DefaultK     = 25
)

type band struct {
	bound   uint64
	samples []float64
	sorted  bool
}

func (b *band) insert(v float64) {
	b.samples = append(b.samples, v)
	b.sorted = false
}

func (b *band) percentile(p float64) float64 {
	n := len(b.samples)
	if n == 0 {
		return 0
	}
	if !b.sorted {
		sort.Float64s(b.samples)
		b.sorted = true
	}
	if p <= 0 {
		return b.samples[0]
	}
	if p >= 100 {
		return b.samples[n-1]
	}
	idx := int(p/100*float64(n)+0.5) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return b.samples[idx]
}

// RangedDigest routes samples keyed by block number into one of several
// digests, banded by a fixed set of block-number upper bounds.
type RangedDigest struct {
	bands []*band // ascending by bound
}

// New builds a digest with one band per entry in bounds. bounds need not
// be pre-sorted; it is sorted ascending internally. The highest bound
// acts as a catch-all: any sample with blockNumber >= every bound lands
// in that final band.
func New(bounds []uint64) *RangedDigest {
	cp := append([]uint64(nil), bounds...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })

	d := &RangedDigest{bands: make([]*band, len(cp))}
	for i, b := range cp {
		d.bands[i] = &band{bound: b}
	}
	return d
}

// Update routes v into the band with the smallest bound strictly greater
// than blockNumber; ties (blockNumber == bound) go to the next higher
// band. If blockNumber is >= every bound, it lands in the last band.
func (d *RangedDigest) Update(blockNumber uint64, v float64) {
	if len(d.bands) == 0 {
		return
	}
	idx := sort.Search(len(d.bands), func(i int) bool {
		return d.bands[i].bound > blockNumber
	})
	if idx == len(d.bands) {
		idx = len(d.bands) - 1
	}
	d.bands[idx].insert(v)
}

// Percentile returns the approximate p-th percentile of the band keyed
// by bound, or 0 if that band has no samples or doesn't exist.
func (d *RangedDigest) Percentile(bound uint64, p float64) float64 {
	for _, b := range d.bands {
		if b.bound == bound {
			return b.percentile(p)
		}
	}
	return 0
}

// BandPercentile is one band's p-th percentile.
type BandPercentile struct {
	Bound uint64
	Value float64
}

// All returns the p-th percentile for every band, in ascending bound
// order.
func (d *RangedDigest) All(p float64) []BandPercentile {
	out := make([]BandPercentile, len(d.bands))
	for i, b := range d.bands {
		out[i] = BandPercentile{Bound: b.bound, Value: b.percentile(p)}
	}
	return out
}

// MaxPercentile returns the maximum p-th percentile across all bands.
func (d *RangedDigest) MaxPercentile(p float64) float64 {
	var max float64
	for _, b := range d.bands {
		if v := b.percentile(p); v > max {
			max = v
		}
	}
	return max
}

// Count is the total number of samples inserted across every band.
func (d *RangedDigest) Count() int {
	total := 0
	for _, b := range d.bands {
		total += len(b.samples)
	}
	return total
}
