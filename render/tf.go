package render

import (
	"fmt"
	"math"

	"github.com/densmd/densmd/grid"
	"github.com/densmd/densmd/miller"
)

//TFParams is the transfer function of one species: the normalized
//threshold window in [0,1], the overall opacity in [0,1], the gamma
//exponent shaping opacity inside the window, and the colormap name.
type TFParams struct {
	Lower    float64
	Upper    float64
	Opacity  float64
	Gamma    float64
	Colormap string
}

//MapVolume converts a density sub-volume to flat RGBA, four bytes per
//voxel in the sub-volume's own layout. Densities are normalized
//against the min and max of the visible portion only, so slicing a
//slab re-stretches the contrast to what is on screen. Voxels outside
//the slab mask get zero alpha. A flat sub-volume (max equals min)
//maps to fully transparent output.
func MapVolume(sub *grid.Sub, mask *miller.Mask, p TFParams) ([]uint8, error) {
	lut, err := Lookup(p.Colormap)
	if err != nil {
		return nil, err
	}
	if mask != nil && len(mask.In) != len(sub.Data) {
		return nil, fmt.Errorf("mask size %d does not match sub-volume size %d",
			len(mask.In), len(sub.Data))
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, v := range sub.Data {
		if mask != nil && !mask.In[i] {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	out := make([]uint8, 4*len(sub.Data))
	if !(hi > lo) {
		return out, nil
	}
	span := hi - lo

	for i, v := range sub.Data {
		norm := (v - lo) / span
		if norm < 0 {
			norm = 0
		} else if norm > 1 {
			norm = 1
		}
		rgb := lut.At(norm)
		out[4*i] = rgb[0]
		out[4*i+1] = rgb[1]
		out[4*i+2] = rgb[2]
		out[4*i+3] = alpha(norm, p)
		if mask != nil && !mask.In[i] {
			out[4*i+3] = 0
		}
	}
	return out, nil
}

//alpha computes the opacity byte of one normalized density value.
//With gamma zero the window acts as a hard gate, excluding the lower
//edge so that empty space (normalized zero) stays invisible even when
//the lower threshold is zero. With positive gamma the opacity ramps
//from the lower to the upper edge, shaped by the exponent.
func alpha(norm float64, p TFParams) uint8 {
	if p.Lower > p.Upper {
		return 0
	}
	if p.Gamma == 0 {
		if norm > p.Lower && norm <= p.Upper {
			return uint8(p.Opacity*255 + 0.5)
		}
		return 0
	}
	if norm < p.Lower || norm > p.Upper {
		return 0
	}
	var ramp float64
	if p.Upper > p.Lower {
		ramp = (norm - p.Lower) / (p.Upper - p.Lower)
	} else {
		ramp = 1
	}
	if ramp < 0 {
		ramp = 0
	} else if ramp > 1 {
		ramp = 1
	}
	return uint8(math.Pow(ramp, p.Gamma)*p.Opacity*255 + 0.5)
}
