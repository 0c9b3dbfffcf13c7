package bfa

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	densmd "github.com/densmd/densmd"
	v3 "github.com/densmd/densmd/v3"
)

const defaultPrec = 2

//BfaW writes a BFA trajectory.
type BfaW struct {
	f         *os.File
	h         io.WriteCloser
	symbols   []string
	filename  string
	writeable bool
	prec      int
}

//NewWriter creates a BFA file with the given per-atom symbols and
//optional extra header entries. An optional precision overrides the
//default of 2 decimal places.
func NewWriter(name string, symbols []string, header map[string]string, prec ...int) (*BfaW, error) {
	W := new(BfaW)
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"NewWriter"}, true}
	}
	W.h, err = zstd.NewWriter(W.f)
	if err != nil {
		W.f.Close()
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	W.symbols = symbols
	W.filename = name
	W.prec = defaultPrec
	if len(prec) > 0 && prec[0] > 0 {
		W.prec = prec[0]
	}
	for k, v := range header {
		if k == "prec" {
			continue //written below, from the actual precision in use
		}
		fmt.Fprintf(W.h, "%s=%s\n", k, v)
	}
	fmt.Fprintf(W.h, "prec=%d\n", W.prec)
	fmt.Fprintf(W.h, "** %d\n", len(symbols))
	W.writeable = true
	return W, nil
}

//WNext writes the next frame. If a cell slice of at least 9 elements
//is given, it is written on the frame terminator line.
func (W *BfaW) WNext(coord *v3.Matrix, cell ...[]float64) error {
	if !W.writeable {
		return Error{TrajUnIniWrite, W.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, W.filename, []string{"WNext"}, true}
	}
	if v := coord.NVecs(); v != len(W.symbols) {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, len(W.symbols)), W.filename, []string{"WNext"}, true}
	}
	p := math.Pow(10, float64(W.prec))
	for i, s := range W.symbols {
		fmt.Fprintf(W.h, "%s %d %d %d\n", s,
			int(math.RoundToEven(coord.At(i, 0)*p)),
			int(math.RoundToEven(coord.At(i, 1)*p)),
			int(math.RoundToEven(coord.At(i, 2)*p)))
	}
	if len(cell) > 0 && len(cell[0]) >= 9 {
		b := cell[0]
		fmt.Fprintf(W.h, "* %g %g %g %g %g %g %g %g %g\n",
			b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	} else {
		fmt.Fprintln(W.h, "*")
	}
	return nil
}

//Len returns the number of atoms per frame.
func (W *BfaW) Len() int {
	return len(W.symbols)
}

//Close flushes and closes the file. The writer is unusable afterwards.
func (W *BfaW) Close() {
	if W == nil || !W.writeable {
		return
	}
	W.h.Close()
	W.f.Close()
	W.writeable = false
}

//BfaR reads a BFA trajectory.
type BfaR struct {
	f        *os.File
	dec      *zstd.Decoder
	h        *bufio.Reader
	symbols  []string
	natoms   int
	filename string
	prec     int
	readable bool
}

//New opens a BFA trajectory for reading. It returns the handle and
//the header metadata, or nil metadata when the file has none.
func New(name string) (*BfaR, map[string]string, error) {
	R := new(BfaR)
	R.natoms = -1
	R.prec = defaultPrec
	R.filename = name
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"New"}, true}
	}
	R.dec, err = zstd.NewReader(bufio.NewReader(R.f))
	if err != nil {
		R.f.Close()
		return nil, nil, Error{err.Error(), name, []string{"New"}, true}
	}
	R.h = bufio.NewReader(R.dec)
	var m map[string]string
	for {
		str, err := R.h.ReadString('\n')
		if err != nil {
			return nil, nil, Error{"Can't read header: " + err.Error(), name, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			fields := strings.Fields(str)
			if len(fields) < 2 {
				return nil, nil, Error{fmt.Sprintf("Can't read atom number from %q", str), name, []string{"New"}, true}
			}
			R.natoms, err = strconv.Atoi(fields[1])
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("Can't read atom number from %q: %s", fields[1], err.Error()), name, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return nil, nil, Error{"Malformed header line: " + str, name, []string{"New"}, true}
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[kv[0]] = kv[1]
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			R.prec = prec
		} else {
			log.Printf("Invalid precision in trajectory %s, using the default", name)
		}
	}
	R.readable = true
	return R, m, nil
}

//Readable returns true if it is possible to call Next on the handle.
func (R *BfaR) Readable() bool {
	return R.readable
}

//Next puts the coordinates of the next frame in c, or discards the
//frame if c is nil. If a cell slice of at least 9 elements is given
//and the frame carries cell information, the slice is filled with it.
//At the end of the trajectory a LastFrameError is returned and the
//handle is closed.
func (R *BfaR) Next(c *v3.Matrix, cell ...[]float64) error {
	if !R.readable {
		return Error{TrajUnIniRead, R.filename, []string{"Next"}, true}
	}
	p := math.Pow(10, float64(R.prec))
	firstFrame := R.symbols == nil
	for i := 0; i < R.natoms; i++ {
		line, err := R.h.ReadString('\n')
		if err != nil {
			if err == io.EOF && i == 0 {
				R.Close()
				return newLastFrameError(R.filename, "Next")
			}
			return Error{ReadError + ": " + err.Error(), R.filename, []string{"Next"}, true}
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return Error{WrongFormat + ": " + strings.TrimSuffix(line, "\n"), R.filename, []string{"Next"}, true}
		}
		if firstFrame {
			R.symbols = append(R.symbols, fields[0])
		}
		if c == nil {
			continue //the frame is still checked for correctness
		}
		for j := 0; j < 3; j++ {
			n, err := strconv.Atoi(fields[j+1])
			if err != nil {
				return Error{fmt.Sprintf("Can't parse coordinate %d (%s): %s", j, fields[j+1], err.Error()), R.filename, []string{"Next"}, true}
			}
			c.Set(i, j, float64(n)/p)
		}
	}
	term, err := R.h.ReadString('\n')
	if err != nil {
		return Error{"Can't read the frame termination mark: " + err.Error(), R.filename, []string{"Next"}, true}
	}
	if term[0] != '*' {
		return Error{WrongFormat + ": expected frame terminator, got " + strings.TrimSuffix(term, "\n"), R.filename, []string{"Next"}, true}
	}
	if len(cell) > 0 && len(cell[0]) >= 9 {
		fields := strings.Fields(strings.TrimSpace(term))
		if len(fields) >= 10 {
			var errcell error
			for j, v := range fields[1:10] {
				cell[0][j], errcell = strconv.ParseFloat(v, 64)
				if errcell != nil {
					break
				}
			}
			//a bad cell zeroes the whole slice and logs, no error
			if errcell != nil {
				log.Printf("Failed to read the unit cell in a frame from %s", R.filename)
				for j := range cell[0] {
					cell[0][j] = 0
				}
			}
		} else {
			log.Printf("Trajectory file %s does not contain cell information", R.filename)
		}
	}
	return nil
}

//Len returns the number of atoms in each frame of the trajectory.
func (R *BfaR) Len() int {
	return R.natoms
}

//Symbols returns the per-atom chemical labels, known after the first
//frame has been read. It returns nil before that.
func (R *BfaR) Symbols() []string {
	return R.symbols
}

//Close closes the handle and marks it as unreadable.
func (R *BfaR) Close() {
	if !R.readable {
		return
	}
	R.dec.Close()
	R.f.Close()
	R.readable = false
}

//Error is the general structure for BFA trajectory errors. It
//fulfills densmd.Error and densmd.TrajError.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("bfa file %s error: %s", err.filename, err.message)
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

//Format returns the format associated to the error, always "bfa".
func (err Error) Format() string { return "bfa" }

//Critical returns true if the error is critical.
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the BFA file or frame"
)

//lastFrameError implements densmd.LastFrameError.
type lastFrameError struct {
	deco     []string
	fileName string
}

func (e lastFrameError) NormalLastFrameTermination() {}

func (e lastFrameError) FileName() string { return e.fileName }

func (e lastFrameError) Error() string { return "EOF" }

func (e lastFrameError) Critical() bool { return false }

func (e lastFrameError) Format() string { return "bfa" }

func (e lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		e.deco = append(e.deco, deco)
	}
	return e.deco
}

func newLastFrameError(filename, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}

var _ densmd.Traj = (*BfaR)(nil)
