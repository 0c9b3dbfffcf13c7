package render

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
)

//SlicePNG draws one z-slice of a mapped RGBA volume as a PNG image,
//one square of scale x scale pixels per voxel, over a black
//background. rgba is the flat output of MapVolume with the matching
//dims; k selects the slice, with a negative k meaning the middle one.
func SlicePNG(rgba []uint8, dims [3]int, k, scale int) ([]byte, error) {
	if len(rgba) != 4*dims[0]*dims[1]*dims[2] {
		return nil, fmt.Errorf("rgba length %d does not match dims %v", len(rgba), dims)
	}
	if k < 0 {
		k = dims[2] / 2
	}
	if k >= dims[2] {
		return nil, fmt.Errorf("slice %d out of range, volume has %d slices", k, dims[2])
	}
	if scale < 1 {
		scale = 1
	}
	dc := gg.NewContext(dims[0]*scale, dims[1]*scale)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	for i := 0; i < dims[0]; i++ {
		for j := 0; j < dims[1]; j++ {
			p := 4 * ((i*dims[1]+j)*dims[2] + k)
			a := rgba[p+3]
			if a == 0 {
				continue
			}
			dc.SetRGBA255(int(rgba[p]), int(rgba[p+1]), int(rgba[p+2]), int(a))
			dc.DrawRectangle(float64(i*scale), float64(j*scale), float64(scale), float64(scale))
			dc.Fill()
		}
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
