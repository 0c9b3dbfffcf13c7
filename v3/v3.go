//Package v3 implements a matrix of 3D cartesian points, i.e. a matrix
//with 3 columns and an arbitrary number of rows, on top of the gonum
//Dense type. Within this package a "vector" is a row of such a matrix,
//the coordinates of one point in space.
package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of row vectors in 3D cartesian space.
//It must be able to implement any gonum matrix interface.
type Matrix struct {
	*mat.Dense
}

//Matrix2Dense returns the gonum Dense matrix underlying A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

//Dense2Matrix wraps a gonum Dense matrix into a Matrix. The Dense
//must have 3 columns; the function panics otherwise.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic("v3: only 3-column matrices can be wrapped")
	}
	return &Matrix{A}
}

//NewMatrix builds a Matrix with 3 columns from data, which is read in
//row-major order. It returns an error if the length of data is not
//divisible by 3.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, fmt.Errorf("v3: input slice length %d not divisible by %d", l, cols)
	}
	return &Matrix{mat.NewDense(rows, cols, data)}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors. vecs must be
//at least 1; the empty point set is represented by a nil *Matrix.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	return &Matrix{mat.NewDense(vecs, cols, make([]float64, cols*vecs))}
}

//NVecs returns the number of vectors in F. A nil Matrix, the empty
//point set, has zero vectors.
func (F *Matrix) NVecs() int {
	if F == nil || F.Dense == nil {
		return 0
	}
	r, c := F.Dims()
	if c != 3 {
		panic("v3: not a 3-column matrix")
	}
	return r
}

//VecView returns a view of the ith vector of F. Changes in the view
//are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//View returns a view of F starting from row i and spanning r rows.
func (F *Matrix) View(i, r int) *Matrix {
	ret := F.Dense.Slice(i, i+r, 0, 3).(*mat.Dense)
	return &Matrix{ret}
}

//SomeVecs puts in the receiver the vectors of A with the indexes
//given in clist, in the order of the list. The receiver must have
//as many vectors as the list has elements; panics on mismatch.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	ar, _ := A.Dims()
	fr, _ := F.Dims()
	if fr != len(clist) || ar < len(clist) {
		panic(mat.ErrShape)
	}
	for key, val := range clist {
		for j := 0; j < 3; j++ {
			F.Set(key, j, A.At(val, j))
		}
	}
}

//SomeVecsSafe is SomeVecs, but it returns an error instead of
//panicking on mismatched shapes.
func (F *Matrix) SomeVecsSafe(A *Matrix, clist []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("v3: %v", r)
		}
	}()
	F.SomeVecs(A, clist)
	return err
}

//AppendRows returns a new Matrix with the rows of its arguments, in
//order. Nil arguments are skipped; if nothing remains the result is
//nil.
func AppendRows(args ...*Matrix) *Matrix {
	tot := 0
	for _, v := range args {
		tot += v.NVecs()
	}
	if tot == 0 {
		return nil
	}
	ret := Zeros(tot)
	offset := 0
	for _, v := range args {
		if v == nil {
			continue
		}
		n := v.NVecs()
		for i := 0; i < n; i++ {
			for j := 0; j < 3; j++ {
				ret.Set(offset+i, j, v.At(i, j))
			}
		}
		offset += n
	}
	return ret
}

//String returns a neat string representation of the Matrix.
func (F *Matrix) String() string {
	r, _ := F.Dims()
	v := make([]string, 0, r+2)
	v = append(v, "\n[")
	for i := 0; i < r; i++ {
		v = append(v, fmt.Sprintf(" %6.2f %6.2f %6.2f", F.At(i, 0), F.At(i, 1), F.At(i, 2)))
	}
	v = append(v, " ]")
	return strings.Join(v, "\n")
}
