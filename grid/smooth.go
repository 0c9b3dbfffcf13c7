package grid

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

//smoothKey identifies one smoothing result: the sigma used and the
//content hash of the raw field it was computed from.
type smoothKey struct {
	sigma float64
	hash  uint64
}

//Smoother applies Gaussian blurs to fields and memoizes the results,
//so repeated passes with unchanged inputs never recompute a blur.
type Smoother struct {
	cache *lru.Cache[smoothKey, *Field]
}

//NewSmoother returns a Smoother whose cache keeps up to size entries.
func NewSmoother(size int) (*Smoother, error) {
	c, err := lru.New[smoothKey, *Field](size)
	if err != nil {
		return nil, err
	}
	return &Smoother{cache: c}, nil
}

//Smooth returns f blurred with a Gaussian of the given sigma.
//sigma <= 0 is a no-op passthrough returning f itself. The raw field
//is never modified; the result is cached by (sigma, content hash).
func (s *Smoother) Smooth(f *Field, sigma float64) *Field {
	if sigma <= 0 {
		return f
	}
	key := smoothKey{sigma: sigma, hash: f.Hash()}
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}
	out := gaussian3(f, sigma)
	s.cache.Add(key, out)
	return out
}

//gaussian3 blurs the field with a separable Gaussian kernel along
//each axis, with reflecting boundaries and a truncation radius of
//4 sigma.
func gaussian3(f *Field, sigma float64) *Field {
	n := f.N
	kern := gaussKernel(sigma)
	src := make([]float64, len(f.Counts))
	copy(src, f.Counts)
	dst := make([]float64, len(src))

	//strides for the three axes in the (i*N+j)*N+k layout
	strides := [3]int{n * n, n, 1}
	for axis := 0; axis < 3; axis++ {
		convolveAxis(src, dst, n, strides[axis], kern)
		src, dst = dst, src
	}
	out := &Field{
		N:       n,
		Counts:  src,
		Origin:  f.Origin,
		Spacing: f.Spacing,
		Sigma:   sigma,
	}
	out.finish()
	return out
}

//gaussKernel returns a normalized 1D Gaussian of radius ceil(4 sigma).
func gaussKernel(sigma float64) []float64 {
	radius := int(math.Ceil(4 * sigma))
	if radius < 1 {
		radius = 1
	}
	k := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+radius] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

//reflect maps an out-of-range line index back into [0, n) by
//mirroring at the boundaries.
func reflect(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return i
}

//convolveAxis runs the 1D kernel over every line of the cube along
//the axis with the given stride.
func convolveAxis(src, dst []float64, n, stride int, kern []float64) {
	radius := (len(kern) - 1) / 2
	total := n * n * n
	//enumerate the n*n lines along this axis: every flat index whose
	//coordinate along the axis is zero is a line start.
	for start := 0; start < total; start++ {
		if (start/stride)%n != 0 {
			continue
		}
		for i := 0; i < n; i++ {
			acc := 0.0
			for t := -radius; t <= radius; t++ {
				acc += kern[t+radius] * src[start+reflect(i+t, n)*stride]
			}
			dst[start+i*stride] = acc
		}
	}
}
