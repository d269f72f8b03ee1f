package control

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// EigenDiagonal expands k ≤ n eigenvalues into an n×n diagonal. Entries past
// the last supplied value repeat it, which makes the damping isotropic in
// the directions orthogonal to the first k-1 frame axes.
func EigenDiagonal(n int, eigenvalues []float64) (*mat.DiagDense, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidDimension, "dimension %d", n)
	}
	k := len(eigenvalues)
	if k == 0 {
		return nil, ErrEmptyEigenvalues
	}
	if k > n {
		return nil, errors.Wrapf(ErrInvalidDimension, "%d eigenvalues for dimension %d", k, n)
	}
	for i, v := range eigenvalues {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrNegativeEigenvalue, "eigenvalue %d is %g", i, v)
		}
	}

	diag := make([]float64, n)
	copy(diag, eigenvalues)
	for i := k; i < n; i++ {
		diag[i] = eigenvalues[k-1]
	}
	return mat.NewDiagDense(n, diag), nil
}

// AssembleDamping returns basis·eig·basisᵀ. The product is accumulated as
// Σ λᵢ·bᵢ·bᵢᵀ over the basis columns so the result is exactly symmetric.
func AssembleDamping(basis mat.Matrix, eig *mat.DiagDense) (*mat.SymDense, error) {
	r, c := basis.Dims()
	if r != c || eig.SymmetricDim() != r {
		return nil, errors.Wrapf(ErrInvalidDimension, "basis %dx%d, eigenvalues %d", r, c, eig.SymmetricDim())
	}
	d := mat.NewSymDense(r, nil)
	buf := make([]float64, r)
	for i := 0; i < c; i++ {
		lambda := eig.At(i, i)
		if lambda == 0 {
			continue
		}
		col := mat.NewVecDense(r, mat.Col(buf, i, basis))
		d.SymRankOne(d, lambda, col)
	}
	return d, nil
}

// SymmetryError returns the largest |m[i,j] - m[j,i]|.
func SymmetryError(m mat.Matrix) float64 {
	r, _ := m.Dims()
	worst := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < i; j++ {
			worst = math.Max(worst, math.Abs(m.At(i, j)-m.At(j, i)))
		}
	}
	return worst
}

// MinEigenvalue returns the smallest eigenvalue of the symmetric matrix s.
func MinEigenvalue(s mat.Symmetric) (float64, error) {
	var es mat.EigenSym
	if ok := es.Factorize(s, false); !ok {
		return 0, errors.New("control: eigen decomposition did not converge")
	}
	values := es.Values(nil)
	lowest := math.Inf(1)
	for _, v := range values {
		lowest = math.Min(lowest, v)
	}
	return lowest, nil
}
