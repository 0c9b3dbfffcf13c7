package grid

import (
	"math"
	"testing"

	v3 "github.com/densmd/densmd/v3"
)

func TestSmoothSigmaZeroIdentity(Te *testing.T) {
	pts, _ := v3.NewMatrix([]float64{5, 5, 5, 2, 8, 3})
	f := Build(pts, cube10(), 8)
	s, err := NewSmoother(4)
	if err != nil {
		Te.Fatal(err)
	}
	out := s.Smooth(f, 0)
	if out != f {
		Te.Error("sigma=0 must be a passthrough of the raw field")
	}
}

func TestSmoothSpreadsAndCaches(Te *testing.T) {
	pts, _ := v3.NewMatrix([]float64{5, 5, 5})
	f := Build(pts, cube10(), 8)
	s, _ := NewSmoother(4)
	out := s.Smooth(f, 1.0)
	if out == f {
		Te.Fatal("Smoothing must not return the raw field")
	}
	if out.Max >= f.Max {
		Te.Errorf("Blur should lower the peak: raw %v smoothed %v", f.Max, out.Max)
	}
	//a normalized kernel with reflecting boundaries conserves mass
	if math.Abs(out.Sum()-f.Sum()) > 1e-9 {
		Te.Errorf("Blur changed the total mass: %v vs %v", out.Sum(), f.Sum())
	}
	again := s.Smooth(f, 1.0)
	if again != out {
		Te.Error("Second call with identical inputs must hit the cache")
	}
	other := s.Smooth(f, 2.0)
	if other == out {
		Te.Error("Different sigmas must not share cache entries")
	}
}

func TestReflectIndex(Te *testing.T) {
	cases := [][3]int{{-1, 5, 0}, {-2, 5, 1}, {5, 5, 4}, {6, 5, 3}, {2, 5, 2}}
	for _, c := range cases {
		if got := reflect(c[0], c[1]); got != c[2] {
			Te.Errorf("reflect(%d,%d)=%d, expected %d", c[0], c[1], got, c[2])
		}
	}
}
