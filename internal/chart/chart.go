// Package chart turns dashboard records into declarative chart geometry:
// scales, bar rectangles, stacked segments, axis ticks and legend rows.
//
// Nothing in this package paints. A Chart is a plain value that renderers
// walk to produce SVG, HTML or tabular output, and it is rebuilt from
// scratch whenever the records change.
package chart

// Kind identifies which dashboard chart a Chart describes.
type Kind string

const (
	KindBar     Kind = "bar"
	KindStacked Kind = "stacked"
	KindPercent Kind = "percent"
)

// Tooltip is the hover information attached to a rectangle.
type Tooltip struct {
	Key      string  `json:"key" yaml:"key"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
	Value    float64 `json:"value" yaml:"value"`
	Count    float64 `json:"count" yaml:"count"`
}

// Rect is one filled rectangle in pixel space.
type Rect struct {
	X       float64  `json:"x" yaml:"x"`
	Y       float64  `json:"y" yaml:"y"`
	Width   float64  `json:"width" yaml:"width"`
	Height  float64  `json:"height" yaml:"height"`
	Fill    string   `json:"fill" yaml:"fill"`
	Tooltip *Tooltip `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
}

// Segment is a Rect inside a stack together with its value-space bounds.
type Segment struct {
	Rect  `yaml:",inline"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Layer holds the segments of one category, one per record.
type Layer struct {
	Category string    `json:"category" yaml:"category"`
	Fill     string    `json:"fill" yaml:"fill"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

// Text is a caption positioned in pixel space. Rotate is in degrees.
type Text struct {
	Content  string  `json:"content" yaml:"content"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Anchor   string  `json:"anchor" yaml:"anchor"`
	Rotate   float64 `json:"rotate,omitempty" yaml:"rotate,omitempty"`
	FontSize float64 `json:"font_size,omitempty" yaml:"font_size,omitempty"`
}

// Chart is the complete geometry of one chart.
type Chart struct {
	Kind   Kind          `json:"kind" yaml:"kind"`
	Width  float64       `json:"width" yaml:"width"`
	Height float64       `json:"height" yaml:"height"`
	Title  Text          `json:"title" yaml:"title"`
	XLabel Text          `json:"x_label" yaml:"x_label"`
	YLabel Text          `json:"y_label" yaml:"y_label"`
	XAxis  Axis          `json:"x_axis" yaml:"x_axis"`
	YAxis  Axis          `json:"y_axis" yaml:"y_axis"`
	Bars   []Rect        `json:"bars,omitempty" yaml:"bars,omitempty"`
	Layers []Layer       `json:"layers,omitempty" yaml:"layers,omitempty"`
	Legend []LegendEntry `json:"legend,omitempty" yaml:"legend,omitempty"`
	Max    float64       `json:"max" yaml:"max"`
}

// Empty reports whether the chart has nothing to draw besides its frame.
func (c *Chart) Empty() bool {
	return len(c.Bars) == 0 && len(c.Layers) == 0
}

// Frame returns a chart with captions and axes but no geometry. It is what
// the dashboard shows when its data is missing or malformed.
func Frame(kind Kind, layout Layout) Chart {
	upper := 0.0
	if kind == KindPercent {
		upper = percentDomainUpper
	}
	band, linear := scales(nil, upper, layout)
	return frame(kind, layout, band, linear)
}

func frame(kind Kind, layout Layout, band BandScale, linear LinearScale) Chart {
	title, xLabel, yLabel := layout.texts()
	return Chart{
		Kind:   kind,
		Width:  layout.Width,
		Height: layout.Height,
		Title:  title,
		XLabel: xLabel,
		YLabel: yLabel,
		XAxis:  BottomAxis(band, layout),
		YAxis:  LeftAxis(linear, layout, DefaultTickCount),
		Max:    linear.Max(),
	}
}

func scales(keys []string, max float64, layout Layout) (BandScale, LinearScale) {
	low, high := layout.bandRange()
	band := NewBandScale(keys, low, high, layout.Padding, layout.Round)
	yLow, yHigh := layout.valueRange()
	return band, NewLinearScale(max, yLow, yHigh)
}
