package densmd

import (
	"fmt"

	v3 "github.com/densmd/densmd/v3"
)

//Tensor is the stacked trajectory: all selected frames, each with the
//same number of atoms in the same order. It is the working set of the
//precompute stage and is released once the per-species statistics and
//fields have been extracted from it.
type Tensor struct {
	frames []*v3.Matrix
	natoms int
}

//Stack builds a Tensor from frames, validating that every frame holds
//the same number of atoms. A trajectory whose frames disagree on the
//atom count is corrupt and is rejected outright.
func Stack(frames []*Frame) (*Tensor, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames selected from trajectory")
	}
	n := frames[0].Coords.NVecs()
	t := &Tensor{frames: make([]*v3.Matrix, len(frames)), natoms: n}
	for i, fr := range frames {
		if got := fr.Coords.NVecs(); got != n {
			return nil, fmt.Errorf("frame %d has %d atoms, expected %d", i, got, n)
		}
		t.frames[i] = fr.Coords
	}
	return t, nil
}

//NFrames returns the number of stacked frames.
func (t *Tensor) NFrames() int {
	return len(t.frames)
}

//NAtoms returns the number of atoms per frame.
func (t *Tensor) NAtoms() int {
	return t.natoms
}

//Frame returns the coordinates of the ith stacked frame. Panics if the
//tensor has been released.
func (t *Tensor) Frame(i int) *v3.Matrix {
	if t.frames == nil {
		panic("densmd: use of released tensor")
	}
	return t.frames[i]
}

//Release drops the frame data so it can be collected. The tensor keeps
//its shape metadata; Frame panics after release.
func (t *Tensor) Release() {
	t.frames = nil
}

//Released reports whether the frame data has been dropped.
func (t *Tensor) Released() bool {
	return t.frames == nil
}
