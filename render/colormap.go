//Package render maps density sub-volumes to RGBA transfer-function
//output and draws 2D slice previews. It owns no geometry: everything
//here works on the flat arrays produced by the grid and miller
//packages.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

//lutSize is the number of entries of a color lookup table.
const lutSize = 256

//LUT is a 256-entry RGB lookup table sampled from a named colormap.
type LUT [lutSize][3]uint8

//At returns the RGB triple for a normalized value in [0,1]. Values
//outside the range are clamped.
func (l *LUT) At(v float64) [3]uint8 {
	i := int(v * (lutSize - 1))
	if i < 0 {
		i = 0
	} else if i > lutSize-1 {
		i = lutSize - 1
	}
	return l[i]
}

func fill(l *LUT, colors []color.Color) {
	n := len(colors)
	for i := 0; i < lutSize; i++ {
		//nearest palette entry for this table position
		ci := i * (n - 1) / (lutSize - 1)
		r, g, b, _ := colors[ci].RGBA()
		l[i] = [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	}
}

//Colormaps returns the names accepted by Lookup, in a stable order.
func Colormaps() []string {
	return []string{
		"coolwarm", "kindlmann", "extended_kindlmann",
		"blackbody", "extended_blackbody",
		"rainbow", "heat",
		"reds", "blues", "greens", "purples",
	}
}

//Lookup builds the lookup table for a named colormap. Unknown names
//are an error so a typo in a request never silently falls back to a
//default map.
func Lookup(name string) (*LUT, error) {
	l := new(LUT)
	switch name {
	case "coolwarm":
		fill(l, moreland.SmoothBlueRed().Palette(lutSize).Colors())
	case "kindlmann":
		fill(l, moreland.Kindlmann().Palette(lutSize).Colors())
	case "extended_kindlmann":
		fill(l, moreland.ExtendedKindlmann().Palette(lutSize).Colors())
	case "blackbody":
		fill(l, moreland.BlackBody().Palette(lutSize).Colors())
	case "extended_blackbody":
		fill(l, moreland.ExtendedBlackBody().Palette(lutSize).Colors())
	case "rainbow":
		fill(l, palette.Rainbow(lutSize, palette.Blue, palette.Red, 1, 1, 1).Colors())
	case "heat":
		fill(l, palette.Heat(lutSize, 1).Colors())
	case "reds", "blues", "greens", "purples":
		//brewer names are capitalized; sequential maps top out at 9
		bn := string(name[0]-'a'+'A') + name[1:]
		p, err := brewer.GetPalette(brewer.TypeSequential, bn, 9)
		if err != nil {
			return nil, fmt.Errorf("colormap %q: %w", name, err)
		}
		fill(l, p.Colors())
	default:
		return nil, fmt.Errorf("unknown colormap %q", name)
	}
	return l, nil
}
