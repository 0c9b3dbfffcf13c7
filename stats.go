package densmd

import (
	v3 "github.com/densmd/densmd/v3"

	"github.com/densmd/densmd/grid"
)

//SpeciesStats carries the two position sets derived per species from
//the stacked trajectory: every occurrence across all frames (the
//histogram input) and the per-atom time averages (the averaged point
//cloud). Both are already restricted to the region of interest, each
//filtered on its own, so a wandering atom can contribute raw samples
//inside the region while its average sits outside, and the other way
//around. A set left with no positions is nil.
type SpeciesStats struct {
	Name         string
	RawPositions *v3.Matrix
	AvgPositions *v3.Matrix
}

//clampAvgRange resolves the configured averaging window against the
//actual frame count. end <= 0 means "through the last frame".
func clampAvgRange(start, end, nframes int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end <= 0 || end > nframes {
		end = nframes
	}
	if start >= end {
		start = 0
		end = nframes
	}
	return start, end
}

//BuildStats extracts the statistics of one species from the stacked
//trajectory. idx lists the atom indices of the species; avgStart and
//avgEnd bound the frames used for time averaging.
func BuildStats(t *Tensor, name string, idx []int, b grid.Bounds, avgStart, avgEnd int) *SpeciesStats {
	nf := t.NFrames()
	na := len(idx)

	//raw: the species rows of every frame, stacked
	raw := v3.Zeros(nf * na)
	for f := 0; f < nf; f++ {
		raw.View(f*na, na).SomeVecs(t.Frame(f), idx)
	}

	//averaged: per-atom mean over the averaging window
	s, e := clampAvgRange(avgStart, avgEnd, nf)
	avg := v3.Zeros(na)
	for f := s; f < e; f++ {
		fr := t.Frame(f)
		for i, ai := range idx {
			for j := 0; j < 3; j++ {
				avg.Set(i, j, avg.At(i, j)+fr.At(ai, j))
			}
		}
	}
	//scale through the embedded Dense on both sides: handing gonum the
	//wrapper makes it see the argument as an aliased region of the
	//receiver and panic
	w := 1.0 / float64(e-s)
	avg.Dense.Scale(w, avg.Dense)

	return &SpeciesStats{
		Name:         name,
		RawPositions: b.Filter(raw),
		AvgPositions: b.Filter(avg),
	}
}
