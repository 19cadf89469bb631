package chart

// set3 is the twelve-colour qualitative palette used for stacked categories.
var set3 = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072",
	"#80b1d3", "#fdb462", "#b3de69", "#fccde5",
	"#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

// PaletteColor returns the palette colour for position i, wrapping around.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return set3[i%len(set3)]
}
