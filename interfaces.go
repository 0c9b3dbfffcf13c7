package densmd

import v3 "github.com/densmd/densmd/v3"

//Traj is the interface for any trajectory source. Implementations
//live under traj/; anything that can hand out frames in order can
//feed the pipeline.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into c, or discards it if c is nil.
	//If a cell slice of at least 9 elements is given, it is filled
	//with the frame's unit-cell vectors, row-major.
	Next(c *v3.Matrix, cell ...[]float64) error

	//Len returns the number of atoms per frame.
	Len() int

	//Symbols returns the per-atom chemical labels, in atom order.
	Symbols() []string
}

//Error is the error interface implemented across this module's
//packages. Decorate adds information when the error is passed up,
//without wrapping it in another type; it returns the current
//decoration stack, and an empty string only queries it.
type Error interface {
	Error() string
	Decorate(string) []string
}

//TrajError is the interface for errors in trajectory sources.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

//LastFrameError signals a normal end of trajectory. Its extra method
//does nothing; it only separates this interface from other
//TrajErrors in type switches.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination()
}
