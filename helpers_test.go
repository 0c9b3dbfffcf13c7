package densmd

import (
	v3 "github.com/densmd/densmd/v3"
)

//memTraj is an in-memory trajectory used across the tests.
type memTraj struct {
	frames  []*v3.Matrix
	cell    []float64
	symbols []string
	pos     int
	closed  bool
}

func (m *memTraj) Readable() bool { return !m.closed }

func (m *memTraj) Next(c *v3.Matrix, cell ...[]float64) error {
	if m.pos >= len(m.frames) {
		m.closed = true
		return memEOF{}
	}
	fr := m.frames[m.pos]
	m.pos++
	if c != nil {
		c.Copy(fr)
	}
	if len(cell) > 0 && len(cell[0]) >= 9 {
		copy(cell[0], m.cell)
	}
	return nil
}

func (m *memTraj) Len() int { return len(m.symbols) }
func (m *memTraj) Symbols() []string { return m.symbols }

//memEOF implements LastFrameError.
type memEOF struct{}

func (memEOF) Error() string { return "EOF" }
func (memEOF) Decorate(string) []string { return nil }
func (memEOF) Critical() bool { return false }
func (memEOF) FileName() string { return "" }
func (memEOF) Format() string { return "mem" }
func (memEOF) NormalLastFrameTermination() {}

//cubicTraj builds a trajectory of nframes frames in a cubic cell of
//the given side, with one atom per symbol at fixed positions.
func cubicTraj(symbols []string, positions [][3]float64, nframes int, side float64) *memTraj {
	m := &memTraj{
		symbols: symbols,
		cell: []float64{
			side, 0, 0,
			0, side, 0,
			0, 0, side,
		},
	}
	for f := 0; f < nframes; f++ {
		c := v3.Zeros(len(symbols))
		for i, p := range positions {
			c.Set(i, 0, p[0])
			c.Set(i, 1, p[1])
			c.Set(i, 2, p[2])
		}
		m.frames = append(m.frames, c)
	}
	return m
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Input.Path = "mem"
	cfg.Input.Format = FormatBFA
	cfg.Grid.Resolution = 4
	cfg.Smoothing.Sigma = 0
	return cfg
}
