package chart

// Orientation is the side of the plot an axis is drawn on.
type Orientation string

const (
	OrientBottom Orientation = "bottom"
	OrientLeft   Orientation = "left"
)

// Tick is one labelled mark along an axis. Pos is measured along the axis:
// x for a bottom axis, y for a left axis.
type Tick struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	Pos   float64 `json:"pos" yaml:"pos"`
}

// Axis describes one axis line and its ticks. Offset is the axis'
// position across the plot: y for a bottom axis, x for a left axis.
type Axis struct {
	Orient Orientation `json:"orient" yaml:"orient"`
	Offset float64     `json:"offset" yaml:"offset"`
	From   float64     `json:"from" yaml:"from"`
	To     float64     `json:"to" yaml:"to"`
	Ticks  []Tick      `json:"ticks" yaml:"ticks"`
}

// BottomAxis puts one tick per key at the centre of its band.
func BottomAxis(band BandScale, layout Layout) Axis {
	from, to := layout.bandRange()
	a := Axis{
		Orient: OrientBottom,
		Offset: layout.Height - layout.Margin.Bottom,
		From:   from,
		To:     to,
	}
	keys := band.Keys()
	a.Ticks = make([]Tick, 0, len(keys))
	for i, k := range keys {
		pos, _ := band.Center(k)
		a.Ticks = append(a.Ticks, Tick{Label: k, Value: float64(i), Pos: pos})
	}
	return a
}

// LeftAxis spreads about count round values over the linear domain.
func LeftAxis(linear LinearScale, layout Layout, count int) Axis {
	from, to := layout.valueRange()
	a := Axis{
		Orient: OrientLeft,
		Offset: layout.Margin.Left,
		From:   from,
		To:     to,
	}
	for _, v := range linear.Ticks(count) {
		a.Ticks = append(a.Ticks, Tick{Label: FormatTick(v), Value: v, Pos: linear.Scale(v)})
	}
	return a
}
