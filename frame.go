package densmd

import (
	"fmt"

	v3 "github.com/densmd/densmd/v3"
)

//Frame is one simulation snapshot: the cartesian positions of every
//atom plus the 3x3 unit-cell matrix, flattened row-major (rows are
//the cell vectors). Frames are consumed once during precompute and
//then discarded.
type Frame struct {
	Coords *v3.Matrix
	Cell   []float64
}

//ReadAll drains a trajectory into a slice of frames. The end of the
//trajectory (a LastFrameError) is not an error; anything else aborts
//the read.
func ReadAll(t Traj) ([]*Frame, error) {
	if !t.Readable() {
		return nil, fmt.Errorf("trajectory is not readable")
	}
	var frames []*Frame
	for {
		c := v3.Zeros(t.Len())
		cell := make([]float64, 9)
		err := t.Next(c, cell)
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				break
			}
			return nil, fmt.Errorf("reading frame %d: %w", len(frames), err)
		}
		frames = append(frames, &Frame{Coords: c, Cell: cell})
	}
	return frames, nil
}
