package control

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RandomBasis returns an n×n orthonormal frame drawn from r. Entries are
// sampled uniformly in [-1, 1] and then orthonormalized.
func RandomBasis(n int, r *rand.Rand, tol float64) (*mat.Dense, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidDimension, "basis dimension %d", n)
	}
	data := make([]float64, n*n)
	for i := range data {
		data[i] = 2*r.Float64() - 1
	}
	b := mat.NewDense(n, n, data)
	if err := Orthonormalize(b, tol); err != nil {
		return nil, err
	}
	if err := CheckOrthonormal(b, tol); err != nil {
		return nil, err
	}
	return b, nil
}

// BuildBasis returns a new frame whose first column is dir normalized and
// whose remaining columns are prev's columns run through Gram-Schmidt
// against it. prev is not modified.
func BuildBasis(prev mat.Matrix, dir mat.Vector, minSpeed, tol float64) (*mat.Dense, error) {
	r, c := prev.Dims()
	if r != c {
		return nil, errors.Wrapf(ErrInvalidDimension, "basis is %dx%d", r, c)
	}
	if dir.Len() != r {
		return nil, errors.Wrapf(ErrInvalidDimension, "direction has %d entries, basis has %d rows", dir.Len(), r)
	}
	norm := mat.Norm(dir, 2)
	if norm <= minSpeed || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, errors.Wrapf(ErrUndefinedDirection, "direction norm %g", norm)
	}

	b := mat.DenseCopyOf(prev)
	col := make([]float64, r)
	for i := range col {
		col[i] = dir.AtVec(i) / norm
	}
	b.SetCol(0, col)

	if err := Orthonormalize(b, tol); err != nil {
		return nil, err
	}
	if err := CheckOrthonormal(b, tol); err != nil {
		return nil, err
	}
	return b, nil
}

// Orthonormalize runs modified Gram-Schmidt over the columns of b in place.
// Column 0 keeps its direction. A later column that collapses onto the span
// of the earlier ones is replaced by the coordinate axis with the largest
// residual, so an abrupt turn of column 0 onto a previous axis still yields
// a valid frame.
func Orthonormalize(b *mat.Dense, tol float64) error {
	r, c := b.Dims()
	if r != c {
		return errors.Wrapf(ErrInvalidDimension, "basis is %dx%d", r, c)
	}
	n := r

	cols := make([][]float64, n)
	for j := range cols {
		cols[j] = mat.Col(nil, j, b)
	}

	for i := 0; i < n; i++ {
		project(cols[i], cols[:i])
		norm := floats.Norm(cols[i], 2)
		if norm <= tol || math.IsNaN(norm) {
			if i == 0 {
				return errors.Wrap(ErrOrthonormalization, "column 0 has zero norm")
			}
			norm = reseed(cols[i], cols[:i])
			if norm <= tol {
				return errors.Wrapf(ErrOrthonormalization, "column %d collapsed", i)
			}
		}
		floats.Scale(1/norm, cols[i])
	}

	for j, col := range cols {
		b.SetCol(j, col)
	}
	return nil
}

// project removes from v its components along each of the unit vectors in
// prior, one at a time.
func project(v []float64, prior [][]float64) {
	for _, u := range prior {
		floats.AddScaled(v, -floats.Dot(u, v), u)
	}
}

// reseed overwrites v with the coordinate axis whose residual against prior
// is largest and returns that residual's norm.
func reseed(v []float64, prior [][]float64) float64 {
	best := 0.0
	axis := make([]float64, len(v))
	for k := range axis {
		for i := range axis {
			axis[i] = 0
		}
		axis[k] = 1
		project(axis, prior)
		if norm := floats.Norm(axis, 2); norm > best {
			best = norm
			copy(v, axis)
		}
	}
	return best
}

// CheckOrthonormal reports whether every column of b has unit norm and every
// pair of distinct columns is orthogonal, both within tol.
func CheckOrthonormal(b mat.Matrix, tol float64) error {
	r, c := b.Dims()
	if r != c {
		return errors.Wrapf(ErrInvalidDimension, "basis is %dx%d", r, c)
	}
	cols := make([][]float64, c)
	for j := range cols {
		cols[j] = mat.Col(nil, j, b)
	}
	for i := range cols {
		if d := math.Abs(floats.Norm(cols[i], 2) - 1); !(d < tol) {
			return errors.Wrapf(ErrOrthonormalization, "column %d norm off by %g", i, d)
		}
		for j := 0; j < i; j++ {
			if d := math.Abs(floats.Dot(cols[i], cols[j])); !(d < tol) {
				return errors.Wrapf(ErrOrthonormalization, "columns %d and %d dot %g", j, i, d)
			}
		}
	}
	return nil
}

// OrthonormalityError returns the largest deviation of bᵀb from identity.
func OrthonormalityError(b mat.Matrix) float64 {
	_, c := b.Dims()
	var g mat.Dense
	g.Mul(b.T(), b)
	worst := 0.0
	for i := 0; i < c; i++ {
		for j := 0; j < c; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			worst = math.Max(worst, math.Abs(g.At(i, j)-want))
		}
	}
	return worst
}
