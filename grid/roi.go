package grid

//PhysBounds converts the grid-index selection into physical
//coordinates: phys = origin + index*spacing, per axis per bound.
func (r ROI) PhysBounds(origin, spacing [3]float64) (min, max [3]float64) {
	min[0] = origin[0] + float64(r.X0)*spacing[0]
	min[1] = origin[1] + float64(r.Y0)*spacing[1]
	min[2] = origin[2] + float64(r.Z0)*spacing[2]
	max[0] = origin[0] + float64(r.X1)*spacing[0]
	max[1] = origin[1] + float64(r.Y1)*spacing[1]
	max[2] = origin[2] + float64(r.Z1)*spacing[2]
	return min, max
}

//Centers holds the voxel-center coordinates of an ROI selection, one
//axis slice per dimension. The center of voxel (i,j,k) of the
//selection is (X[i], Y[j], Z[k]).
type Centers struct {
	Dims [3]int
	X    []float64
	Y    []float64
	Z    []float64
}

//Centers returns the voxel-center coordinate grid for the selection,
//cell-centered: origin + (index+0.5)*spacing.
func (r ROI) Centers(origin, spacing [3]float64) *Centers {
	d := r.Dims()
	c := &Centers{Dims: d,
		X: make([]float64, d[0]),
		Y: make([]float64, d[1]),
		Z: make([]float64, d[2]),
	}
	for i := 0; i < d[0]; i++ {
		c.X[i] = origin[0] + (float64(r.X0+i)+0.5)*spacing[0]
	}
	for j := 0; j < d[1]; j++ {
		c.Y[j] = origin[1] + (float64(r.Y0+j)+0.5)*spacing[1]
	}
	for k := 0; k < d[2]; k++ {
		c.Z[k] = origin[2] + (float64(r.Z0+k)+0.5)*spacing[2]
	}
	return c
}
