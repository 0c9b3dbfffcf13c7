package densmd

import (
	"fmt"
	"strconv"
	"strings"
)

//FrameSlice selects a sub-sequence of frames with python slice
//semantics: optional start, stop and step, negative values counted
//from the end, and a negative step walking backwards.
type FrameSlice struct {
	Start, Stop, Step int
	HasStart, HasStop bool
}

//ParseFrameSlice parses a colon-delimited slice specification such as
//":", "::10", "5:100:2" or "-50:". A single field is a bare stop
//("100" keeps the first hundred frames). Malformed fields or a zero
//step are configuration errors.
func ParseFrameSlice(spec string) (FrameSlice, error) {
	s := FrameSlice{Step: 1}
	parts := strings.Split(spec, ":")
	if len(parts) > 3 {
		return s, fmt.Errorf("invalid frame slice %q: too many fields", spec)
	}
	num := func(p string) (int, bool, error) {
		if p == "" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, false, fmt.Errorf("invalid frame slice %q: %w", spec, err)
		}
		return n, true, nil
	}
	var err error
	if len(parts) == 1 {
		//a lone number is a stop, like python's slice(n)
		s.Stop, s.HasStop, err = num(parts[0])
		return s, err
	}
	if s.Start, s.HasStart, err = num(parts[0]); err != nil {
		return s, err
	}
	if s.Stop, s.HasStop, err = num(parts[1]); err != nil {
		return s, err
	}
	if len(parts) == 3 {
		step, has, err := num(parts[2])
		if err != nil {
			return s, err
		}
		if has {
			if step == 0 {
				return s, fmt.Errorf("invalid frame slice %q: step cannot be zero", spec)
			}
			s.Step = step
		}
	}
	return s, nil
}

//indices resolves the slice against a sequence of the given length,
//following the python slice.indices contract.
func (s FrameSlice) indices(length int) (start, stop, step int) {
	step = s.Step
	defStart, defStop := 0, length
	if step < 0 {
		defStart, defStop = length-1, -1
	}
	clamp := func(i int, lo, hi int) int {
		if i < lo {
			return lo
		}
		if i > hi {
			return hi
		}
		return i
	}
	start = defStart
	if s.HasStart {
		start = s.Start
		if start < 0 {
			start += length
		}
		if step < 0 {
			start = clamp(start, -1, length-1)
		} else {
			start = clamp(start, 0, length)
		}
	}
	stop = defStop
	if s.HasStop {
		stop = s.Stop
		if stop < 0 {
			stop += length
		}
		if step < 0 {
			stop = clamp(stop, -1, length-1)
		} else {
			stop = clamp(stop, 0, length)
		}
	}
	return start, stop, step
}

//Apply returns the selected frames. The input slice is not modified.
func (s FrameSlice) Apply(frames []*Frame) []*Frame {
	start, stop, step := s.indices(len(frames))
	var out []*Frame
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, frames[i])
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, frames[i])
		}
	}
	return out
}
