package densmd

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/densmd/densmd/grid"
)

//CellFromFrame wraps the 9 row-major cell floats of a frame into a
//3x3 matrix whose rows are the cell vectors.
func CellFromFrame(fr *Frame) (*mat.Dense, error) {
	if fr == nil || len(fr.Cell) < 9 {
		return nil, fmt.Errorf("frame carries no unit cell")
	}
	return mat.NewDense(3, 3, fr.Cell[:9]), nil
}

//corner returns the cartesian position of the fractional point
//(fa,fb,fc) in the cell: fa*v0 + fb*v1 + fc*v2.
func corner(cell *mat.Dense, fa, fb, fc float64) [3]float64 {
	var p [3]float64
	for a := 0; a < 3; a++ {
		p[a] = fa*cell.At(0, a) + fb*cell.At(1, a) + fc*cell.At(2, a)
	}
	return p
}

//cornerBounds returns the axis-aligned box enclosing the eight
//cartesian corners spanned by the fractional ranges [fr[a][0],
//fr[a][1]] along each cell vector. Non-orthogonal cells are handled
//correctly: the box covers the full parallelepiped slab.
func cornerBounds(cell *mat.Dense, fr [3][2]float64) grid.Bounds {
	b := grid.Bounds{
		Min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				p := corner(cell, fr[0][i], fr[1][j], fr[2][k])
				for a := 0; a < 3; a++ {
					if p[a] < b.Min[a] {
						b.Min[a] = p[a]
					}
					if p[a] > b.Max[a] {
						b.Max[a] = p[a]
					}
				}
			}
		}
	}
	return b
}

//ResolveBounds turns the configured region-of-interest declaration
//into cartesian bounds against the given unit cell. A nil declaration
//selects the whole cell. Fractional bounds are taken along the cell
//vectors; absolute bounds are cartesian pairs whose order per axis
//does not matter.
func ResolveBounds(decl *ROIDecl, cell *mat.Dense) (grid.Bounds, error) {
	if decl == nil {
		return cornerBounds(cell, [3][2]float64{{0, 1}, {0, 1}, {0, 1}}), nil
	}
	if len(decl.Bounds) != 3 {
		return grid.Bounds{}, fmt.Errorf("roi needs exactly 3 (min,max) pairs, got %d", len(decl.Bounds))
	}
	switch decl.Type {
	case ROIFractional:
		var fr [3][2]float64
		for a := 0; a < 3; a++ {
			fr[a][0] = math.Min(decl.Bounds[a][0], decl.Bounds[a][1])
			fr[a][1] = math.Max(decl.Bounds[a][0], decl.Bounds[a][1])
		}
		return cornerBounds(cell, fr), nil
	case ROIAbsolute:
		var b grid.Bounds
		for a := 0; a < 3; a++ {
			b.Min[a] = math.Min(decl.Bounds[a][0], decl.Bounds[a][1])
			b.Max[a] = math.Max(decl.Bounds[a][0], decl.Bounds[a][1])
		}
		return b, nil
	default:
		return grid.Bounds{}, fmt.Errorf("unknown roi type %q", decl.Type)
	}
}
