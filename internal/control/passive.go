package control

import (
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/passiveds/internal/dynamo"
)

// PassiveDS is a passivity-preserving velocity tracking controller.
//
// The frame (basis), the eigenvalue diagonal and the damping matrix are
// owned by the controller. Accessors return copies.
type PassiveDS struct {
	dim     int
	basis   *mat.Dense
	eig     *mat.DiagDense
	damping *mat.SymDense
	opts    options
}

var _ dynamo.Controller = (*PassiveDS)(nil)

// New builds a controller of dimension dim. eigenvalues lists the damping
// along the frame axes in order, starting with the desired direction. Fewer
// than dim values are padded with the last one.
func New(dim int, eigenvalues []float64, opts ...Option) (*PassiveDS, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.minSpeed >= 0) || !(o.tolerance > 0) {
		return nil, errors.Errorf("control: min speed %g and tolerance %g must be non-negative and positive", o.minSpeed, o.tolerance)
	}

	eig, err := EigenDiagonal(dim, eigenvalues)
	if err != nil {
		return nil, errors.Wrap(err, "passive ds")
	}

	basis, err := RandomBasis(dim, o.random(), o.tolerance)
	if err != nil {
		return nil, errors.Wrap(err, "passive ds: initial frame")
	}

	c := &PassiveDS{
		dim:     dim,
		basis:   basis,
		eig:     eig,
		damping: mat.NewSymDense(dim, nil),
		opts:    o,
	}
	c.opts.logger.Debug("passive ds constructed",
		zap.Int("dim", dim),
		zap.Float64s("eigenvalues", c.Eigenvalues()),
	)
	return c, nil
}

// Step runs one control cycle and returns the effort
//
//	u = -D·current + λ₀·desired
//
// When the desired speed exceeds the minimum speed the frame is realigned
// to the desired direction first; otherwise the previous frame is reused.
// On error the controller state is left untouched.
func (c *PassiveDS) Step(current, desired dynamo.Vector) (dynamo.Vector, error) {
	if len(current) != c.dim {
		return nil, errors.Wrapf(ErrInvalidDimension, "current velocity has %d entries, want %d", len(current), c.dim)
	}
	if len(desired) != c.dim {
		return nil, errors.Wrapf(ErrInvalidDimension, "desired velocity has %d entries, want %d", len(desired), c.dim)
	}
	if !current.IsValid() || !desired.IsValid() {
		return nil, ErrNonFinite
	}

	basis := c.basis
	if speed := desired.Norm(); speed > c.opts.minSpeed {
		next, err := BuildBasis(c.basis, desired.Vec(), c.opts.minSpeed, c.opts.tolerance)
		if err != nil {
			return nil, err
		}
		basis = next
	} else {
		c.opts.logger.Debug("holding frame", zap.Float64("desired_speed", speed))
	}

	damping, err := AssembleDamping(basis, c.eig)
	if err != nil {
		return nil, err
	}

	var u mat.VecDense
	u.MulVec(damping, current.Vec())
	u.ScaleVec(-1, &u)
	u.AddScaledVec(&u, c.eig.At(0, 0), desired.Vec())

	c.basis = basis
	c.damping = damping
	return dynamo.FromVec(&u), nil
}

// Dim returns the state-space dimension.
func (c *PassiveDS) Dim() int { return c.dim }

// MinSpeed returns the gate threshold.
func (c *PassiveDS) MinSpeed() float64 { return c.opts.minSpeed }

// Tolerance returns the orthonormality tolerance.
func (c *PassiveDS) Tolerance() float64 { return c.opts.tolerance }

// Basis returns a copy of the current frame.
func (c *PassiveDS) Basis() *mat.Dense { return mat.DenseCopyOf(c.basis) }

// Damping returns a copy of the damping matrix applied on the last cycle.
// It is zero before the first Step.
func (c *PassiveDS) Damping() *mat.SymDense {
	d := mat.NewSymDense(c.dim, nil)
	d.CopySym(c.damping)
	return d
}

// Eigenvalues returns the diagonal of the eigenvalue matrix.
func (c *PassiveDS) Eigenvalues() []float64 {
	out := make([]float64, c.dim)
	for i := range out {
		out[i] = c.eig.At(i, i)
	}
	return out
}

// GetParams reports the configuration for display. The eigenvalues are fixed
// for the controller's lifetime and cannot be tuned.
func (c *PassiveDS) GetParams() map[string]float64 {
	params := map[string]float64{
		"dim":       float64(c.dim),
		"min_speed": c.opts.minSpeed,
		"tolerance": c.opts.tolerance,
	}
	for i, v := range c.Eigenvalues() {
		params["lambda"+strconv.Itoa(i)] = v
	}
	return params
}
