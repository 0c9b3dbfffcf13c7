package grid

import (
	"fmt"
	"testing"

	v3 "github.com/densmd/densmd/v3"
)

func cube10() Bounds {
	return Bounds{Min: [3]float64{0, 0, 0}, Max: [3]float64{10, 10, 10}}
}

func TestBuildConservesCounts(Te *testing.T) {
	b := cube10()
	pts, _ := v3.NewMatrix([]float64{
		0, 0, 0, //corner, must still bin
		10, 10, 10, //opposite corner, clipped into the last voxel
		5, 5, 5,
		1.2, 3.4, 7.7,
		9.99, 0.01, 4.2,
	})
	f := Build(pts, b, 4)
	if got := f.Sum(); got != 5 {
		Te.Errorf("Expected 5 binned counts, got %v", got)
	}
	if f.At(3, 3, 3) != 1 {
		Te.Errorf("Region-edge position not clipped into last voxel")
	}
	if f.At(0, 0, 0) != 1 {
		Te.Errorf("Origin corner not binned into first voxel")
	}
}

func TestBuildMetadata(Te *testing.T) {
	f := Build(nil, cube10(), 5)
	if f.Sum() != 0 {
		Te.Error("Empty input must give a zero field")
	}
	for a := 0; a < 3; a++ {
		if f.Spacing[a] != 10.0/4.0 {
			Te.Errorf("Wrong spacing on axis %d: %v", a, f.Spacing[a])
		}
	}
	if f.Min != 0 || f.Max != 0 {
		Te.Errorf("Zero field must have zero min/max, got %v %v", f.Min, f.Max)
	}
}

func TestDegenerateAxis(Te *testing.T) {
	b := Bounds{Min: [3]float64{0, 0, 0}, Max: [3]float64{10, 0, 10}} //flat in y
	pts, _ := v3.NewMatrix([]float64{5, 0, 5})
	f := Build(pts, b, 4)
	if f.Spacing[1] <= 0 {
		Te.Errorf("Degenerate axis spacing must stay positive, got %v", f.Spacing[1])
	}
	if f.Sum() != 1 {
		Te.Errorf("Point on a degenerate axis lost: sum %v", f.Sum())
	}
}

func TestFilterMonotone(Te *testing.T) {
	pts, _ := v3.NewMatrix([]float64{
		1, 1, 1, 2, 2, 2, 5, 5, 5, 9, 9, 9, 11, 1, 1,
	})
	big := cube10()
	small := Bounds{Min: [3]float64{0, 0, 0}, Max: [3]float64{4, 4, 4}}
	nb := big.Filter(pts).NVecs()
	ns := small.Filter(pts).NVecs()
	if nb != 4 || ns != 2 {
		Te.Errorf("Wrong filter counts: big %d small %d", nb, ns)
	}
	if ns > nb {
		Te.Error("Shrinking the region increased the filtered count")
	}
	//a box away from every point yields the empty set
	empty := Bounds{Min: [3]float64{100, 100, 100}, Max: [3]float64{110, 110, 110}}
	if got := empty.Filter(pts); got != nil {
		Te.Errorf("Expected the empty set, got %v", got)
	}
	if n := empty.Filter(pts).NVecs(); n != 0 {
		Te.Errorf("The empty set holds 0 vectors, got %d", n)
	}
}

func TestPercentileAndHash(Te *testing.T) {
	pts, _ := v3.NewMatrix([]float64{5, 5, 5, 5, 5, 5, 1, 1, 1})
	f := Build(pts, cube10(), 4)
	g := Build(pts, cube10(), 4)
	if f.Hash() != g.Hash() {
		Te.Error("Identical fields must hash identically")
	}
	if f.Percentile(0) != 0 {
		Te.Errorf("Lowest percentile should be 0, got %v", f.Percentile(0))
	}
	if f.Percentile(1) != 2 {
		Te.Errorf("Highest percentile should be the max count 2, got %v", f.Percentile(1))
	}
	fmt.Println("field hash", f.Hash())
}

func TestSubExtraction(Te *testing.T) {
	pts, _ := v3.NewMatrix([]float64{5, 5, 5})
	f := Build(pts, cube10(), 4)
	r := ROI{X0: 1, X1: 2, Y0: 1, Y1: 2, Z0: 1, Z1: 2}.Clamp(f.N)
	s := f.Sub(r)
	if s.Dims != [3]int{2, 2, 2} || len(s.Data) != 8 {
		Te.Errorf("Wrong sub-block shape: %v", s.Dims)
	}
	sum := 0.0
	for _, v := range s.Data {
		sum += v
	}
	if sum != 1 {
		Te.Errorf("Sub-block lost the binned count: sum %v", sum)
	}
}

func TestROIClamp(Te *testing.T) {
	r := ROI{X0: -3, X1: 900, Y0: 2, Y1: 1, Z0: 0, Z1: 3}.Clamp(4)
	if r.X0 != 0 || r.X1 != 3 {
		Te.Errorf("X not clamped: %+v", r)
	}
	if r.Y1 < r.Y0 {
		Te.Errorf("Y bounds not ordered after clamp: %+v", r)
	}
}

func TestPhysBoundsAndCenters(Te *testing.T) {
	origin := [3]float64{0, 0, 0}
	spacing := [3]float64{2, 2, 2}
	r := ROI{X0: 1, X1: 3, Y0: 0, Y1: 2, Z0: 2, Z1: 3}
	min, max := r.PhysBounds(origin, spacing)
	if min[0] != 2 || max[0] != 6 || min[2] != 4 || max[2] != 6 {
		Te.Errorf("Wrong physical bounds: %v %v", min, max)
	}
	c := r.Centers(origin, spacing)
	if c.X[0] != 3 { //(1+0.5)*2
		Te.Errorf("Wrong first x center: %v", c.X[0])
	}
	if len(c.Y) != 3 || c.Y[2] != 5 {
		Te.Errorf("Wrong y centers: %v", c.Y)
	}
}
