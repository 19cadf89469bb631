package chart

// Chart frame constants shared by every chart on the dashboard.
const (
	ChartWidth         = 650
	ChartHeight        = 400
	TitleFontSize      = 20
	LegendOffset       = 50
	LegendGap          = 20
	LegendSquareSize   = 18
	LegendTextStart    = 24
	BarPadding         = 0.1
	StackedPadding     = 0.2
	DefaultTickCount   = 10
	BarFill            = "#52b6ca"
	percentDomainUpper = 100
)

// Margin is the blank space between the chart frame and its plot area.
type Margin struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// Captions positions a chart's title and axis labels. The y label is
// drawn rotated by -90 degrees, so YLabelX runs along the vertical axis.
type Captions struct {
	TitleX  float64
	TitleY  float64
	XLabelX float64
	XLabelY float64
	YLabelX float64
	YLabelY float64
}

// Layout fixes the pixel geometry and the captions of one chart.
type Layout struct {
	Width        float64
	Height       float64
	Margin       Margin
	Padding      float64
	Round        bool
	LegendOffset float64
	Title        string
	XLabel       string
	YLabel       string
	Fill         string
	Captions     Captions
}

// BarLayout is the frame of the repositories-by-PR-count chart.
func BarLayout() Layout {
	m := Margin{Top: 40, Right: 5, Bottom: 50, Left: 60}
	return Layout{
		Width:   ChartWidth,
		Height:  ChartHeight,
		Margin:  m,
		Padding: BarPadding,
		Round:   true,
		Title:   "Capstone Repositories",
		XLabel:  "Number of pull requests",
		YLabel:  "Number of repositories",
		Fill:    BarFill,
		// Title and x label sit right of centre by the full right margin.
		Captions: Captions{
			TitleX:  ChartWidth/2 + m.Right,
			TitleY:  m.Top / 2,
			XLabelX: ChartWidth/2 + m.Right,
			XLabelY: ChartHeight - m.Bottom/8,
			YLabelX: m.Top - ChartHeight/2,
			YLabelY: m.Left / 3,
		},
	}
}

// StackedLayout is the frame of the review-categories-by-week chart.
func StackedLayout() Layout {
	m := Margin{Top: 30, Right: 30, Bottom: 40, Left: 50}
	return Layout{
		Width:        ChartWidth,
		Height:       ChartHeight,
		Margin:       m,
		Padding:      StackedPadding,
		LegendOffset: LegendOffset,
		Title:        "Comment categories by week",
		XLabel:       "Week",
		YLabel:       "Comment Count",
		Captions: Captions{
			TitleX:  ChartWidth / 2,
			TitleY:  m.Top / 2,
			XLabelX: ChartWidth/2 + m.Right/2,
			XLabelY: ChartHeight,
			YLabelX: m.Top/2 - ChartHeight/2,
			YLabelY: m.Left / 3,
		},
	}
}

// PercentLayout is StackedLayout with percentage captions.
func PercentLayout() Layout {
	l := StackedLayout()
	l.Title = "Comment categories by week (%)"
	l.YLabel = "Percentage of comments"
	return l
}

// bandRange is the horizontal pixel interval available to the bands.
func (l Layout) bandRange() (low, high float64) {
	return l.Margin.Left, l.Width - l.Margin.Right - l.LegendOffset
}

// valueRange is the vertical pixel interval; low is where the value 0 sits.
func (l Layout) valueRange() (low, high float64) {
	return l.Height - l.Margin.Bottom, l.Margin.Top
}

func (l Layout) texts() (title, xLabel, yLabel Text) {
	c := l.Captions
	title = Text{
		Content:  l.Title,
		X:        c.TitleX,
		Y:        c.TitleY,
		Anchor:   "middle",
		FontSize: TitleFontSize,
	}
	xLabel = Text{
		Content: l.XLabel,
		X:       c.XLabelX,
		Y:       c.XLabelY,
		Anchor:  "middle",
	}
	yLabel = Text{
		Content: l.YLabel,
		X:       c.YLabelX,
		Y:       c.YLabelY,
		Anchor:  "middle",
		Rotate:  -90,
	}
	return title, xLabel, yLabel
}
