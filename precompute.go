package densmd

import (
	"fmt"
	"log"

	"github.com/densmd/densmd/grid"
)

//smootherCacheSize bounds the number of memoized blurred fields. One
//entry per species is the steady state; a few extra slots absorb sigma
//changes without evictions on every pass.
const smootherCacheSize = 32

//Dataset is everything the interactive stage works from: the grid
//metadata, the per-species statistics and raw density fields, and the
//caches that make repeated passes cheap. It is built once per
//trajectory by Precompute and is safe for sequential reuse across
//passes.
type Dataset struct {
	Resolution int
	Bounds     grid.Bounds
	Origin     [3]float64
	Spacing    [3]float64
	CellCenter [3]float64
	Sigma      float64

	Species *SpeciesIndex
	Stats   map[string]*SpeciesStats
	Fields  map[string]*grid.Field //raw (unsmoothed) densities

	smoother *grid.Smoother
	regions  regionCache
}

//Precompute runs the load-time pipeline: read and select frames, index
//species, stack, resolve the region of interest, and build per-species
//statistics and density fields. The stacked frames are released before
//returning; only the derived data stays resident.
func Precompute(cfg *Config, t Traj) (*Dataset, error) {
	frames, err := ReadAll(t)
	if err != nil {
		return nil, err
	}
	sl, err := ParseFrameSlice(cfg.Input.Slice)
	if err != nil {
		return nil, err
	}
	selected := sl.Apply(frames)
	log.Printf("densmd: %d frames read, %d selected", len(frames), len(selected))

	species, err := IndexSpecies(t.Symbols(), cfg.Rename)
	if err != nil {
		return nil, err
	}
	tensor, err := Stack(selected)
	if err != nil {
		return nil, err
	}

	cell, err := CellFromFrame(selected[0])
	if err != nil {
		return nil, err
	}
	bounds, err := ResolveBounds(cfg.ROI, cell)
	if err != nil {
		return nil, err
	}
	fullCell, err := ResolveBounds(nil, cell)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		Resolution: cfg.Grid.Resolution,
		Bounds:     bounds,
		Origin:     bounds.Min,
		CellCenter: fullCell.Center(),
		Sigma:      cfg.Smoothing.Sigma,
		Species:    species,
		Stats:      make(map[string]*SpeciesStats, species.NSpecies()),
		Fields:     make(map[string]*grid.Field, species.NSpecies()),
	}
	for a := 0; a < 3; a++ {
		d.Spacing[a] = bounds.Span(a) / float64(cfg.Grid.Resolution-1)
	}
	d.smoother, err = grid.NewSmoother(smootherCacheSize)
	if err != nil {
		return nil, err
	}

	for _, name := range species.Names {
		st := BuildStats(tensor, name, species.Indices[name], bounds,
			cfg.Average.Start, cfg.Average.End)
		d.Stats[name] = st
		d.Fields[name] = grid.Build(st.RawPositions, bounds, cfg.Grid.Resolution, name)
	}
	tensor.Release()
	return d, nil
}

//SmoothedField returns the density field of the named species, blurred
//with the dataset's sigma. With sigma zero the raw field is returned.
func (d *Dataset) SmoothedField(name string) (*grid.Field, error) {
	f, ok := d.Fields[name]
	if !ok {
		return nil, fmt.Errorf("unknown species %q", name)
	}
	return d.smoother.Smooth(f, d.Sigma), nil
}
