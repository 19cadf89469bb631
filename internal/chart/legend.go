package chart

// LegendEntry is one legend row: a square swatch and a label that ends
// just left of it.
type LegendEntry struct {
	Label  string  `json:"label" yaml:"label"`
	Fill   string  `json:"fill" yaml:"fill"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Size   float64 `json:"size" yaml:"size"`
	TextX  float64 `json:"text_x" yaml:"text_x"`
	TextY  float64 `json:"text_y" yaml:"text_y"`
	Anchor string  `json:"anchor" yaml:"anchor"`
}

// Legend stacks the items vertically in the top right corner, starting
// below the title.
func Legend(items []LegendItem, layout Layout) []LegendEntry {
	entries := make([]LegendEntry, 0, len(items))
	for i, item := range items {
		top := layout.Margin.Top + float64(i*LegendGap)
		entries = append(entries, LegendEntry{
			Label:  item.Label,
			Fill:   item.Color,
			X:      layout.Width - LegendSquareSize,
			Y:      top,
			Size:   LegendSquareSize,
			TextX:  layout.Width - LegendTextStart,
			TextY:  top + LegendSquareSize/2,
			Anchor: "end",
		})
	}
	return entries
}
