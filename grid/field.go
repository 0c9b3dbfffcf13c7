//Package grid builds and slices fixed-resolution 3D occupancy fields
//over a rectangular region of interest.
package grid

import (
	"encoding/binary"
	"hash/fnv"
	"log"
	"math"
	"sort"

	v3 "github.com/densmd/densmd/v3"
)

//minExtent replaces a zero extent on any axis, so spacings and bin
//widths stay strictly positive.
const minExtent = 1e-8

//Bounds is an axis-aligned box in cartesian space.
type Bounds struct {
	Min [3]float64
	Max [3]float64
}

//Span returns the extent of b along axis a, clamped to minExtent.
func (b Bounds) Span(a int) float64 {
	s := b.Max[a] - b.Min[a]
	if s < minExtent {
		return minExtent
	}
	return s
}

//Center returns the geometric center of b.
func (b Bounds) Center() [3]float64 {
	var c [3]float64
	for a := 0; a < 3; a++ {
		c[a] = b.Min[a] + b.Span(a)/2
	}
	return c
}

//Contains reports whether the point (x,y,z) lies inside b, with both
//faces inclusive.
func (b Bounds) Contains(x, y, z float64) bool {
	return x >= b.Min[0] && x <= b.Max[0] &&
		y >= b.Min[1] && y <= b.Max[1] &&
		z >= b.Min[2] && z <= b.Max[2]
}

//Filter returns the vectors of points that lie inside b. When no
//point survives the result is nil, the empty point set.
func (b Bounds) Filter(points *v3.Matrix) *v3.Matrix {
	n := points.NVecs()
	kept := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if b.Contains(points.At(i, 0), points.At(i, 1), points.At(i, 2)) {
			kept = append(kept, i)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	ret := v3.Zeros(len(kept))
	ret.SomeVecs(points, kept)
	return ret
}

//Field is a per-species density histogram over an N×N×N voxel grid,
//plus the grid metadata needed to place it in space. Counts are laid
//out in row-major (x-major) order: index (i*N+j)*N+k.
//A Field is immutable once built; smoothing produces a new Field.
type Field struct {
	N       int
	Counts  []float64
	Origin  [3]float64
	Spacing [3]float64 //voxel-center spacing, (max-min)/(N-1) per axis
	Min     float64
	Max     float64
	Sigma   float64 //smoothing parameter this field was built with, 0 for raw

	sorted []float64
	hash   uint64
}

//Build bins the given positions into an n×n×n histogram over b.
//Positions are expected to be pre-filtered to b; anything slightly
//outside (floating point noise included) is clipped onto the nearest
//face before binning, so the bin-count total always equals the number
//of input positions. A nil or empty input produces a zero field and a
//logged warning, not an error.
func Build(points *v3.Matrix, b Bounds, n int, species ...string) *Field {
	if n < 2 {
		panic("grid: resolution must be at least 2")
	}
	f := &Field{
		N:      n,
		Counts: make([]float64, n*n*n),
		Origin: b.Min,
	}
	var binw [3]float64
	for a := 0; a < 3; a++ {
		f.Spacing[a] = b.Span(a) / float64(n-1)
		binw[a] = b.Span(a) / float64(n)
	}
	if points == nil || points.NVecs() == 0 {
		name := ""
		if len(species) > 0 {
			name = " for species " + species[0]
		}
		log.Printf("grid: no positions in region of interest%s, storing a zero field", name)
		f.finish()
		return f
	}
	np := points.NVecs()
	for i := 0; i < np; i++ {
		var idx [3]int
		for a := 0; a < 3; a++ {
			p := points.At(i, a)
			//clip into [min, max-eps] so the region edge itself bins
			//into the last voxel instead of falling off the grid.
			if p < b.Min[a] {
				p = b.Min[a]
			}
			hi := math.Nextafter(b.Min[a]+b.Span(a), b.Min[a])
			if p > hi {
				p = hi
			}
			j := int((p - b.Min[a]) / binw[a])
			if j > n-1 {
				j = n - 1
			}
			idx[a] = j
		}
		f.Counts[(idx[0]*n+idx[1])*n+idx[2]]++
	}
	f.finish()
	return f
}

//finish computes the derived data of a freshly filled field: global
//min/max, the sorted flattening used for percentile defaults, and the
//content-identity hash used as a smoothing-cache key.
func (f *Field) finish() {
	f.Min = math.Inf(1)
	f.Max = math.Inf(-1)
	for _, v := range f.Counts {
		if v < f.Min {
			f.Min = v
		}
		if v > f.Max {
			f.Max = v
		}
	}
	f.sorted = make([]float64, len(f.Counts))
	copy(f.sorted, f.Counts)
	sort.Float64s(f.sorted)
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range f.Counts {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	f.hash = h.Sum64()
}

//At returns the count of voxel (i,j,k). Panics if out of range.
func (f *Field) At(i, j, k int) float64 {
	if i < 0 || j < 0 || k < 0 || i >= f.N || j >= f.N || k >= f.N {
		panic("grid: voxel index out of range")
	}
	return f.Counts[(i*f.N+j)*f.N+k]
}

//Sum returns the total of all bin counts.
func (f *Field) Sum() float64 {
	t := 0.0
	for _, v := range f.Counts {
		t += v
	}
	return t
}

//Percentile returns the value below which the given fraction of the
//voxel values fall. frac is clamped into [0,1].
func (f *Field) Percentile(frac float64) float64 {
	if len(f.sorted) == 0 {
		return 0
	}
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	i := int(frac * float64(len(f.sorted)-1))
	return f.sorted[i]
}

//Hash returns the content-identity hash of the field values.
func (f *Field) Hash() uint64 {
	return f.hash
}

//ROI is a selection of voxels in grid-index units, all bounds
//inclusive. Min must not exceed max on any axis.
type ROI struct {
	X0, X1, Y0, Y1, Z0, Z1 int
}

//Clamp returns r with every index forced into [0, n-1] and each max
//not below its min.
func (r ROI) Clamp(n int) ROI {
	cl := func(i int) int {
		if i < 0 {
			return 0
		}
		if i > n-1 {
			return n - 1
		}
		return i
	}
	r.X0, r.X1 = cl(r.X0), cl(r.X1)
	r.Y0, r.Y1 = cl(r.Y0), cl(r.Y1)
	r.Z0, r.Z1 = cl(r.Z0), cl(r.Z1)
	if r.X1 < r.X0 {
		r.X1 = r.X0
	}
	if r.Y1 < r.Y0 {
		r.Y1 = r.Y0
	}
	if r.Z1 < r.Z0 {
		r.Z1 = r.Z0
	}
	return r
}

//Dims returns the voxel dimensions of the selection.
func (r ROI) Dims() [3]int {
	return [3]int{r.X1 - r.X0 + 1, r.Y1 - r.Y0 + 1, r.Z1 - r.Z0 + 1}
}

//Volume returns the number of voxels in the selection.
func (r ROI) Volume() int {
	d := r.Dims()
	return d[0] * d[1] * d[2]
}

//Sub is a dense copy of a rectangular sub-block of a field, in the
//same x-major layout.
type Sub struct {
	Dims [3]int
	Data []float64
}

//Sub extracts the ROI sub-block of the field. The ROI must already be
//clamped into the grid.
func (f *Field) Sub(r ROI) *Sub {
	d := r.Dims()
	s := &Sub{Dims: d, Data: make([]float64, d[0]*d[1]*d[2])}
	p := 0
	for i := r.X0; i <= r.X1; i++ {
		for j := r.Y0; j <= r.Y1; j++ {
			base := (i*f.N + j) * f.N
			for k := r.Z0; k <= r.Z1; k++ {
				s.Data[p] = f.Counts[base+k]
				p++
			}
		}
	}
	return s
}
