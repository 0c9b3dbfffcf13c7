package densmd

import (
	"testing"

	v3 "github.com/densmd/densmd/v3"
)

func TestStackValidation(Te *testing.T) {
	frames := []*Frame{
		{Coords: v3.Zeros(4)},
		{Coords: v3.Zeros(4)},
	}
	t, err := Stack(frames)
	if err != nil {
		Te.Fatal(err)
	}
	if t.NFrames() != 2 || t.NAtoms() != 4 {
		Te.Errorf("Wrong tensor shape: %d frames, %d atoms", t.NFrames(), t.NAtoms())
	}

	frames = append(frames, &Frame{Coords: v3.Zeros(5)})
	if _, err := Stack(frames); err == nil {
		Te.Error("Mismatched atom counts should be rejected")
	}
	if _, err := Stack(nil); err == nil {
		Te.Error("Empty frame list should be rejected")
	}
}

func TestTensorRelease(Te *testing.T) {
	t, err := Stack([]*Frame{{Coords: v3.Zeros(2)}})
	if err != nil {
		Te.Fatal(err)
	}
	t.Release()
	if !t.Released() {
		Te.Error("Tensor should report released")
	}
	if t.NAtoms() != 2 {
		Te.Error("Shape metadata must survive release")
	}
	defer func() {
		if recover() == nil {
			Te.Error("Frame access after release should panic")
		}
	}()
	t.Frame(0)
}
