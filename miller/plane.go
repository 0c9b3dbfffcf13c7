//Package miller slices voxel grids and point sets with a slab around
//a crystallographic (Miller-indexed) plane.
package miller

import (
	"math"

	"github.com/densmd/densmd/grid"
	v3 "github.com/densmd/densmd/v3"
)

//Params defines a slab: a plane normal direction from the integer
//Miller indices (h,k,l), a thickness, and a signed offset from the
//cell center along the normal.
type Params struct {
	Enabled   bool
	H, K, L   int
	Thickness float64
	Offset    float64
}

//Normal returns the unit normal of the plane and true, or a zero
//vector and false when the normal is undefined (h=k=l=0).
func (p Params) Normal() ([3]float64, bool) {
	h, k, l := float64(p.H), float64(p.K), float64(p.L)
	norm := math.Sqrt(h*h + k*k + l*l)
	if norm == 0 {
		return [3]float64{}, false
	}
	return [3]float64{h / norm, k / norm, l / norm}, true
}

//Active reports whether slicing should be applied at all: it requires
//the slab to be enabled and its normal to be defined. An undefined
//normal disables slicing, it never passes or rejects everything.
func (p Params) Active() bool {
	if !p.Enabled {
		return false
	}
	_, ok := p.Normal()
	return ok
}

//inside reports whether the point (x,y,z) lies within the slab, given
//the unit normal n and the cell center. This is the single distance
//test shared by grid masking and point filtering; the two must never
//diverge.
func inside(x, y, z float64, center, n [3]float64, offset, thickness float64) bool {
	d := (x-center[0])*n[0] + (y-center[1])*n[1] + (z-center[2])*n[2] - offset
	return math.Abs(d) < thickness/2
}

//Mask is a boolean voxel mask aligned with an ROI sub-block, in the
//same x-major layout.
type Mask struct {
	Dims [3]int
	In   []bool
}

//Count returns the number of voxels inside the slab.
func (m *Mask) Count() int {
	c := 0
	for _, v := range m.In {
		if v {
			c++
		}
	}
	return c
}

//GridMask computes the slab mask over the given voxel-center grid.
//It returns nil when slicing is inactive, meaning "no mask", so the
//caller shows the full region rather than nothing.
func GridMask(c *grid.Centers, center [3]float64, p Params) *Mask {
	n, ok := p.Normal()
	if !p.Enabled || !ok {
		return nil
	}
	m := &Mask{Dims: c.Dims, In: make([]bool, c.Dims[0]*c.Dims[1]*c.Dims[2])}
	idx := 0
	for i := 0; i < c.Dims[0]; i++ {
		for j := 0; j < c.Dims[1]; j++ {
			for k := 0; k < c.Dims[2]; k++ {
				m.In[idx] = inside(c.X[i], c.Y[j], c.Z[k], center, n, p.Offset, p.Thickness)
				idx++
			}
		}
	}
	return m
}

//FilterPoints returns the rows of pts that lie within the slab, using
//the same distance test as GridMask. When slicing is inactive the
//input is returned unchanged. When the slab rejects every point the
//result is nil, the empty point set.
func FilterPoints(pts *v3.Matrix, center [3]float64, p Params) *v3.Matrix {
	n, ok := p.Normal()
	if !p.Enabled || !ok {
		return pts
	}
	nv := pts.NVecs()
	kept := make([]int, 0, nv)
	for i := 0; i < nv; i++ {
		if inside(pts.At(i, 0), pts.At(i, 1), pts.At(i, 2), center, n, p.Offset, p.Thickness) {
			kept = append(kept, i)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	ret := v3.Zeros(len(kept))
	ret.SomeVecs(pts, kept)
	return ret
}
