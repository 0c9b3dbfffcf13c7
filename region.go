package densmd

import (
	"github.com/densmd/densmd/grid"
	"github.com/densmd/densmd/miller"
)

//ROIIndices is the user-facing voxel selection: inclusive index ranges
//per axis, in whatever order the caller sent them.
type ROIIndices struct {
	XMin, XMax int
	YMin, YMax int
	ZMin, ZMax int
}

//Normalize orders each pair and clamps it into the n-voxel grid.
func (r ROIIndices) Normalize(n int) grid.ROI {
	ord := func(a, b int) (int, int) {
		if b < a {
			return b, a
		}
		return a, b
	}
	var g grid.ROI
	g.X0, g.X1 = ord(r.XMin, r.XMax)
	g.Y0, g.Y1 = ord(r.YMin, r.YMax)
	g.Z0, g.Z1 = ord(r.ZMin, r.ZMax)
	return g.Clamp(n)
}

//regionKey identifies one region computation. Both fields are
//comparable value types, so the key works directly as an equality
//check.
type regionKey struct {
	roi    ROIIndices
	miller miller.Params
}

//RegionData is the species-independent geometry of one pass: the
//normalized selection, its physical placement, the voxel-center grid,
//the slab mask (nil when slicing is off) and the camera focal point.
type RegionData struct {
	ROI     grid.ROI
	PhysMin [3]float64
	PhysMax [3]float64
	Centers *grid.Centers
	Mask    *miller.Mask
	Focal   [3]float64
}

//regionCache holds the single most recent region computation. The
//interactive workload changes one parameter at a time, so one slot
//already absorbs every pass where the region and slab are unchanged.
type regionCache struct {
	valid bool
	key   regionKey
	data  *RegionData
}

//RegionData returns the geometry for the given selection and slab,
//reusing the cached result when both are unchanged since the last
//call. The returned value must be treated as read-only.
func (d *Dataset) RegionData(roi ROIIndices, mp miller.Params) *RegionData {
	key := regionKey{roi: roi, miller: mp}
	if d.regions.valid && d.regions.key == key {
		return d.regions.data
	}
	r := roi.Normalize(d.Resolution)
	rd := &RegionData{ROI: r}
	rd.PhysMin, rd.PhysMax = r.PhysBounds(d.Origin, d.Spacing)
	rd.Centers = r.Centers(d.Origin, d.Spacing)
	rd.Mask = miller.GridMask(rd.Centers, d.CellCenter, mp)
	rd.Focal = focalPoint(rd)

	d.regions = regionCache{valid: true, key: key, data: rd}
	return rd
}

//focalSampleStride thins the voxel-center walk used for the focal
//estimate on large slab-masked regions. Sampling roughly every fifth
//voxel keeps the estimate stable while cutting the walk to a fifth of
//the volume.
const (
	focalSampleStride    = 5
	focalStrideThreshold = 100000
)

//focalPoint estimates the point the camera should orbit. Without a
//slab mask it is the geometric center of the region. With a mask it is
//the centroid of the in-slab voxel centers, sampled deterministically
//on large regions with a stride kept coprime to the inner grid
//dimensions (a stride dividing a dimension would lock the walk onto a
//subset of planes along that axis and bias the centroid). An empty
//slab falls back to the region center, so the camera never targets a
//void.
func focalPoint(rd *RegionData) [3]float64 {
	center := [3]float64{
		(rd.PhysMin[0] + rd.PhysMax[0]) / 2,
		(rd.PhysMin[1] + rd.PhysMax[1]) / 2,
		(rd.PhysMin[2] + rd.PhysMax[2]) / 2,
	}
	if rd.Mask == nil {
		return center
	}
	c := rd.Centers
	stride := 1
	if rd.ROI.Volume() > focalStrideThreshold {
		stride = focalSampleStride
		for gcd(stride, c.Dims[1]) != 1 || gcd(stride, c.Dims[2]) != 1 {
			stride++
		}
	}
	var sum [3]float64
	count := 0
	idx := 0
	for i := 0; i < c.Dims[0]; i++ {
		for j := 0; j < c.Dims[1]; j++ {
			for k := 0; k < c.Dims[2]; k++ {
				pos := idx
				idx++
				if pos%stride != 0 {
					continue
				}
				if !rd.Mask.In[pos] {
					continue
				}
				sum[0] += c.X[i]
				sum[1] += c.Y[j]
				sum[2] += c.Z[k]
				count++
			}
		}
	}
	if count == 0 {
		return center
	}
	w := 1.0 / float64(count)
	return [3]float64{sum[0] * w, sum[1] * w, sum[2] * w}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
