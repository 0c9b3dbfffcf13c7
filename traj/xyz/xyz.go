/*
Package xyz reads extended-XYZ trajectory files: repeated blocks of an
atom-count line, a comment line that may carry the unit cell as
Lattice="ax ay az bx by bz cx cy cz", and one "symbol x y z" line per
atom. Files ending in .gz are decompressed on the fly.
*/
package xyz

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	densmd "github.com/densmd/densmd"
	v3 "github.com/densmd/densmd/v3"
)

//XyzR reads an extended-XYZ trajectory.
type XyzR struct {
	f        *os.File
	gz       *gzip.Reader
	h        *bufio.Reader
	symbols  []string
	natoms   int
	filename string
	readable bool
}

//New opens an extended-XYZ trajectory for reading. The atom count and
//symbols are taken from the first frame, which is parsed eagerly so a
//broken file fails at open time.
func New(name string) (*XyzR, error) {
	R := new(XyzR)
	R.filename = name
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, Error{"Unable to open file: " + err.Error(), name, nil, true}
	}
	var src io.Reader = R.f
	if strings.HasSuffix(name, ".gz") {
		R.gz, err = gzip.NewReader(bufio.NewReader(R.f))
		if err != nil {
			R.f.Close()
			return nil, Error{err.Error(), name, nil, true}
		}
		src = R.gz
	}
	R.h = bufio.NewReader(src)

	//peek the first frame header for the atom count
	head, err := R.h.Peek(64)
	if err != nil && len(head) == 0 {
		R.Close()
		return nil, Error{"Empty trajectory", name, nil, true}
	}
	line := strings.SplitN(string(head), "\n", 2)[0]
	R.natoms, err = strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		R.Close()
		return nil, Error{"Can't read atom count from " + line, name, nil, true}
	}
	R.readable = true
	return R, nil
}

//Readable returns true if it is possible to call Next on the handle.
func (R *XyzR) Readable() bool {
	return R.readable
}

//parseLattice extracts the 9 cell components from an extended-XYZ
//comment line. A missing or malformed Lattice entry returns false.
func parseLattice(comment string, cell []float64) bool {
	const key = `Lattice="`
	i := strings.Index(comment, key)
	if i < 0 {
		return false
	}
	rest := comment[i+len(key):]
	j := strings.Index(rest, `"`)
	if j < 0 {
		return false
	}
	fields := strings.Fields(rest[:j])
	if len(fields) != 9 {
		return false
	}
	for k, v := range fields {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return false
		}
		cell[k] = f
	}
	return true
}

//Next puts the coordinates of the next frame in c, or discards the
//frame if c is nil. At the end of the trajectory a LastFrameError is
//returned and the handle is closed.
func (R *XyzR) Next(c *v3.Matrix, cell ...[]float64) error {
	if !R.readable {
		return Error{"Traj object uninitialized to read", R.filename, nil, true}
	}
	count, err := R.h.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			R.Close()
			return newLastFrameError(R.filename, "Next")
		}
		return Error{err.Error(), R.filename, nil, true}
	}
	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil {
		return Error{"Can't read atom count from " + strings.TrimSpace(count), R.filename, nil, true}
	}
	if n != R.natoms {
		return Error{fmt.Sprintf("Frame has %d atoms, expected %d", n, R.natoms), R.filename, nil, true}
	}
	comment, err := R.h.ReadString('\n')
	if err != nil {
		return Error{"Truncated frame header: " + err.Error(), R.filename, nil, true}
	}
	if len(cell) > 0 && len(cell[0]) >= 9 {
		if !parseLattice(comment, cell[0]) {
			log.Printf("Trajectory file %s frame carries no Lattice entry", R.filename)
			for j := range cell[0][:9] {
				cell[0][j] = 0
			}
		}
	}
	firstFrame := R.symbols == nil
	for i := 0; i < R.natoms; i++ {
		line, err := R.h.ReadString('\n')
		if err != nil && err != io.EOF {
			return Error{"Error reading frame: " + err.Error(), R.filename, nil, true}
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return Error{"Malformed atom line: " + strings.TrimSpace(line), R.filename, nil, true}
		}
		if firstFrame {
			R.symbols = append(R.symbols, fields[0])
		}
		if c == nil {
			continue
		}
		for j := 0; j < 3; j++ {
			f, err := strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return Error{fmt.Sprintf("Can't parse coordinate %d (%s): %s", j, fields[j+1], err.Error()), R.filename, nil, true}
			}
			c.Set(i, j, f)
		}
	}
	return nil
}

//Len returns the number of atoms in each frame of the trajectory.
func (R *XyzR) Len() int {
	return R.natoms
}

//Symbols returns the per-atom chemical labels, known after the first
//frame has been read. It returns nil before that.
func (R *XyzR) Symbols() []string {
	return R.symbols
}

//Close closes the handle and marks it as unreadable.
func (R *XyzR) Close() {
	if R.gz != nil {
		R.gz.Close()
		R.gz = nil
	}
	if R.f != nil {
		R.f.Close()
		R.f = nil
	}
	R.readable = false
}

//Error fulfills densmd.Error and densmd.TrajError for XYZ files.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("xyz file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the failing trajectory.
func (err Error) FileName() string { return err.filename }

//Format returns the format associated to the error, always "xyz".
func (err Error) Format() string { return "xyz" }

//Critical returns true if the error is critical.
func (err Error) Critical() bool { return err.critical }

//lastFrameError implements densmd.LastFrameError.
type lastFrameError struct {
	deco     []string
	fileName string
}

func (e lastFrameError) NormalLastFrameTermination() {}

func (e lastFrameError) FileName() string { return e.fileName }

func (e lastFrameError) Error() string { return "EOF" }

func (e lastFrameError) Critical() bool { return false }

func (e lastFrameError) Format() string { return "xyz" }

func (e lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		e.deco = append(e.deco, deco)
	}
	return e.deco
}

func newLastFrameError(filename, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}

var _ densmd.Traj = (*XyzR)(nil)
