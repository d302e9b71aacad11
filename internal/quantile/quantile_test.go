package quantile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateRoutesToSmallestBoundStrictlyGreater(t *testing.T) {
	d := New([]uint64{100, 200})

	d.Update(50, 10)  // routes to band 100
	d.Update(100, 20) // tie: routes to band 200, not 100
	d.Update(150, 30) // routes to band 200
	d.Update(500, 40) // beyond every bound: catch-all last band (200)

	assert.Equal(t, 10.0, d.Percentile(100, 100))
	assert.Equal(t, 0.0, d.Percentile(999, 50)) // no such band

	all := d.All(100)
	assert.Equal(t, []BandPercentile{{100, 10}, {200, 40}}, all)
}

func TestPercentileEmptyBandIsZero(t *testing.T) {
	d := New([]uint64{10})
	assert.Equal(t, 0.0, d.Percentile(10, 50))
}

func TestMaxPercentileAcrossBands(t *testing.T) {
	d := New([]uint64{10, 20, 30})
	d.Update(5, 100)
	d.Update(15, 50)
	d.Update(25, 900)

	assert.Equal(t, 900.0, d.MaxPercentile(100))
}

func TestCountEqualsInsertedSamples(t *testing.T) {
	d := New([]uint64{10, 20})
	for i := 0; i < 37; i++ {
		d.Update(uint64(i%25), float64(i))
	}
	assert.Equal(t, 37, d.Count())
}

func TestPercentileBounds(t *testing.T) {
	d := New([]uint64{1000})
	for i := 1; i <= 100; i++ {
		d.Update(1, float64(i))
	}
	assert.Equal(t, 1.0, d.Percentile(1000, 0))
	assert.Equal(t, 100.0, d.Percentile(1000, 100))
	assert.InDelta(t, 50.0, d.Percentile(1000, 50), 2)
}
