package math

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Eigen holds eigenpairs ordered by descending rank.
// Column j of Vectors belongs to Values[j].
type Eigen struct {
	Values  []float64
	Vectors *mat.Dense
}

// Top returns the first k eigenvectors as the columns of a new matrix.
func (e Eigen) Top(k int) *mat.Dense {
	r, _ := e.Vectors.Dims()
	top := mat.NewDense(r, k, nil)
	top.Copy(e.Vectors.Slice(0, r, 0, k))
	return top
}

// SymEigen decomposes the symmetric matrix a and orders the pairs by descending eigenvalue.
func SymEigen(a mat.Symmetric) (Eigen, error) {
	var es mat.EigenSym
	if ok := es.Factorize(a, true); !ok {
		return Eigen{}, fmt.Errorf("symmetric eigen decomposition: %w", NotConvergedErr)
	}
	values := es.Values(nil)
	var vectors mat.Dense
	es.VectorsTo(&vectors)
	return order(values, values, &vectors), nil
}

// GeneralEigen decomposes the square matrix a and orders the pairs by descending
// eigenvalue magnitude. Only the real parts of the eigenpairs are kept.
func GeneralEigen(a mat.Matrix) (Eigen, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenRight); !ok {
		return Eigen{}, fmt.Errorf("eigen decomposition: %w", NotConvergedErr)
	}
	cvalues := eig.Values(nil)
	var cvectors mat.CDense
	eig.VectorsTo(&cvectors)

	n := len(cvalues)
	values := make([]float64, n)
	magnitudes := make([]float64, n)
	vectors := mat.NewDense(n, n, nil)
	for j, v := range cvalues {
		values[j] = real(v)
		magnitudes[j] = cmplx.Abs(v)
		for i := 0; i < n; i++ {
			vectors.Set(i, j, real(cvectors.At(i, j)))
		}
	}
	return order(values, magnitudes, vectors), nil
}

// order sorts the eigenpairs by descending key. Ties keep the decomposition order.
func order(values, keys []float64, vectors *mat.Dense) Eigen {
	sorter := &eigenSorter{
		index: make([]int, len(values)),
		keys:  keys,
	}
	for i := range sorter.index {
		sorter.index[i] = i
	}
	sort.Stable(sorter)

	r, c := vectors.Dims()
	sorted := Eigen{
		Values:  make([]float64, len(values)),
		Vectors: mat.NewDense(r, c, nil),
	}
	col := make([]float64, r)
	for j, idx := range sorter.index {
		sorted.Values[j] = values[idx]
		sorted.Vectors.SetCol(j, mat.Col(col, idx, vectors))
	}
	return sorted
}

type eigenSorter struct {
	index []int
	keys  []float64
}

func (e *eigenSorter) Len() int {
	return len(e.index)
}

func (e *eigenSorter) Less(i, j int) bool {
	ki, kj := e.keys[e.index[i]], e.keys[e.index[j]]
	if math.IsNaN(kj) {
		return !math.IsNaN(ki)
	}
	return ki > kj
}

func (e *eigenSorter) Swap(i, j int) {
	e.index[i], e.index[j] = e.index[j], e.index[i]
}
