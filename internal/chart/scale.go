package chart

import (
	"math"
	"strconv"
)

// BandScale maps an ordered list of distinct keys onto equal-width,
// evenly spaced bands of a pixel interval.
type BandScale struct {
	keys      []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale splits [low, high] into len(keys) steps. Each band keeps
// (1-padding) of its step, centred in it. With round set, the step is
// floored to whole pixels, the leftover pixels are split evenly on both
// sides, and the first position and the bandwidth are rounded, so every
// band starts on a pixel and all gaps are equal.
func NewBandScale(keys []string, low, high, padding float64, round bool) BandScale {
	padding = math.Max(0, math.Min(padding, 1))
	s := BandScale{
		keys:  append([]string(nil), keys...),
		index: make(map[string]int, len(keys)),
	}
	for i, k := range keys {
		if _, ok := s.index[k]; !ok {
			s.index[k] = i
		}
	}
	if len(keys) == 0 {
		return s
	}
	n := float64(len(keys))
	s.step = (high - low) / n
	if round {
		s.step = math.Floor(s.step)
		low += (high - low - s.step*n) / 2
	}
	s.bandwidth = s.step * (1 - padding)
	s.start = low + s.step*padding/2
	if round {
		s.start = math.Round(s.start)
		s.bandwidth = math.Round(s.bandwidth)
	}
	return s
}

// Band returns the left edge of the key's band.
func (s BandScale) Band(key string) (float64, bool) {
	i, ok := s.index[key]
	if !ok {
		return 0, false
	}
	return s.start + float64(i)*s.step, true
}

// Center returns the horizontal middle of the key's band.
func (s BandScale) Center(key string) (float64, bool) {
	x, ok := s.Band(key)
	if !ok {
		return 0, false
	}
	return x + s.bandwidth/2, true
}

// Bandwidth is the usable width shared by every band.
func (s BandScale) Bandwidth() float64 { return s.bandwidth }

// Keys returns the scale's domain in display order.
func (s BandScale) Keys() []string { return append([]string(nil), s.keys...) }

// LinearScale maps the value interval [0, max] onto [low, high] pixels.
// low is where 0 lands, so for screen coordinates low is the larger number.
type LinearScale struct {
	max  float64
	low  float64
	high float64
}

// NewLinearScale returns a linear scale over [0, max].
func NewLinearScale(max, low, high float64) LinearScale {
	return LinearScale{max: math.Max(max, 0), low: low, high: high}
}

// Scale interpolates v. A zero-width domain maps everything to low.
func (s LinearScale) Scale(v float64) float64 {
	if s.max == 0 {
		return s.low
	}
	return s.low + v/s.max*(s.high-s.low)
}

// Max is the upper bound of the domain.
func (s LinearScale) Max() float64 { return s.max }

// Ticks returns roughly count evenly spaced round values covering the
// domain, always starting at 0.
func (s LinearScale) Ticks(count int) []float64 {
	if s.max == 0 || count <= 0 {
		return []float64{0}
	}
	factor, power := tickIncrement(s.max, count)
	var ticks []float64
	for i := 0; ; i++ {
		v := tickValue(i, factor, power)
		if v > s.max {
			break
		}
		ticks = append(ticks, v)
	}
	return ticks
}

// tickIncrement picks a step of factor*10^power with factor in {1, 2, 5, 10}
// so that span/step is close to count.
func tickIncrement(span float64, count int) (factor, power float64) {
	step := span / float64(count)
	power = math.Floor(math.Log10(step))
	ratio := step / math.Pow(10, power)
	switch {
	case ratio >= math.Sqrt(50):
		factor = 10
	case ratio >= math.Sqrt(10):
		factor = 5
	case ratio >= math.Sqrt(2):
		factor = 2
	default:
		factor = 1
	}
	return factor, power
}

// tickValue computes i*factor*10^power, dividing by an exact power of ten
// for fractional steps so 0.1-style ticks come out clean.
func tickValue(i int, factor, power float64) float64 {
	if power < 0 {
		return float64(i) * factor / math.Pow(10, -power)
	}
	return float64(i) * factor * math.Pow(10, power)
}

// FormatTick renders a tick value without trailing zeros.
func FormatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
