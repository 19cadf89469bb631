package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/pr-dashboard/internal/domain"
)

func TestBuildBar(t *testing.T) {
	records := []domain.SimpleRecord{
		{Category: "0-1", Count: 10},
		{Category: "2-3", Count: 10},
	}

	c := BuildBar(records, BarLayout())

	require.Len(t, c.Bars, 2)
	assert.Equal(t, KindBar, c.Kind)
	assert.Equal(t, 10.0, c.Max)
	assert.Equal(t, Rect{
		X: 75, Y: 40, Width: 263, Height: 310, Fill: BarFill,
		Tooltip: &Tooltip{Key: "0-1", Value: 10, Count: 10},
	}, c.Bars[0])
	assert.Equal(t, c.Bars[0].Width, c.Bars[1].Width)
	assert.Equal(t, c.Bars[0].Height, c.Bars[1].Height)
	assert.Less(t, c.Bars[0].X, c.Bars[1].X)
}

func TestBuildBar_FourBandsEvenlySpaced(t *testing.T) {
	records := []domain.SimpleRecord{
		{Category: "0-1", Count: 1}, {Category: "2-3", Count: 2},
		{Category: "4-5", Count: 3}, {Category: "6-7", Count: 4},
	}

	c := BuildBar(records, BarLayout())

	require.Len(t, c.Bars, 4)
	xs := []float64{c.Bars[0].X, c.Bars[1].X, c.Bars[2].X, c.Bars[3].X}
	assert.Equal(t, []float64{68, 214, 360, 506}, xs)
	for _, b := range c.Bars {
		assert.Equal(t, 131.0, b.Width)
	}
}

func TestBuildBar_EqualCountsEqualHeights(t *testing.T) {
	records := []domain.SimpleRecord{
		{Category: "0-1", Count: 10},
		{Category: "2-3", Count: 4},
		{Category: "4-5", Count: 10},
		{Category: "6-7", Count: 0},
		{Category: "8-9", Count: 4},
	}

	c := BuildBar(records, BarLayout())

	require.Len(t, c.Bars, len(records))
	heights := map[float64]float64{}
	for i, r := range records {
		bar := c.Bars[i]
		assert.Equal(t, r.Category, bar.Tooltip.Key, "bars keep input order")
		if h, ok := heights[r.Count]; ok {
			assert.Equal(t, h, bar.Height)
		}
		heights[r.Count] = bar.Height
		assert.InDelta(t, 350.0, bar.Y+bar.Height, 1e-9, "bars stand on the baseline")
	}
	assert.Zero(t, heights[0])
}

func TestBuildBar_Empty(t *testing.T) {
	for _, records := range [][]domain.SimpleRecord{nil, {}} {
		c := BuildBar(records, BarLayout())
		assert.True(t, c.Empty())
		assert.Equal(t, "Capstone Repositories", c.Title.Content)
		assert.Empty(t, c.XAxis.Ticks)
		assert.Equal(t, []Tick{{Label: "0", Value: 0, Pos: 350}}, c.YAxis.Ticks)
	}
}

func TestBuildBar_AllZero(t *testing.T) {
	c := BuildBar([]domain.SimpleRecord{{Category: "0-1", Count: 0}}, BarLayout())

	require.Len(t, c.Bars, 1)
	assert.Zero(t, c.Bars[0].Height)
	assert.Equal(t, 350.0, c.Bars[0].Y)
}
