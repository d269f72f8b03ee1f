package control_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/passiveds/internal/control"
	"github.com/san-kum/passiveds/internal/dynamo"
)

const eps = 1e-6

func expectOrthonormal(b *mat.Dense) {
	ExpectWithOffset(1, control.CheckOrthonormal(b, eps)).To(Succeed())
}

func expectDamping(d *mat.SymDense, want []float64) {
	n := d.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w := 0.0
			if i == j {
				w = want[i]
			}
			ExpectWithOffset(1, d.At(i, j)).To(BeNumerically("~", w, eps), "damping[%d,%d]", i, j)
		}
	}
}

var _ = Describe("PassiveDS", func() {
	Describe("construction", func() {
		It("rejects an empty eigenvalue list", func() {
			c, err := control.New(2, []float64{}, control.WithSeed(1))
			Expect(err).To(MatchError(control.ErrEmptyEigenvalues))
			Expect(c).To(BeNil())
		})

		It("rejects more eigenvalues than dimensions", func() {
			_, err := control.New(2, []float64{1, 2, 3}, control.WithSeed(1))
			Expect(err).To(MatchError(control.ErrInvalidDimension))
		})

		It("rejects negative and non-finite eigenvalues", func() {
			_, err := control.New(2, []float64{1, -0.5}, control.WithSeed(1))
			Expect(err).To(MatchError(control.ErrNegativeEigenvalue))
			_, err = control.New(2, []float64{math.NaN()}, control.WithSeed(1))
			Expect(err).To(MatchError(control.ErrNegativeEigenvalue))
		})

		It("rejects a non-positive dimension", func() {
			_, err := control.New(0, []float64{1}, control.WithSeed(1))
			Expect(err).To(MatchError(control.ErrInvalidDimension))
		})

		It("rejects a non-positive tolerance", func() {
			_, err := control.New(2, []float64{1}, control.WithTolerance(0))
			Expect(err).To(HaveOccurred())
		})

		It("pads the eigenvalues with the last supplied value", func() {
			c, err := control.New(4, []float64{3, 1}, control.WithSeed(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Eigenvalues()).To(Equal([]float64{3, 1, 1, 1}))
		})

		It("starts from an orthonormal frame and zero damping", func() {
			c, err := control.New(5, []float64{2}, control.WithSeed(7))
			Expect(err).NotTo(HaveOccurred())
			expectOrthonormal(c.Basis())
			expectDamping(c.Damping(), make([]float64, 5))
		})
	})

	Describe("scenarios", func() {
		It("aligns the frame with the desired direction (A)", func() {
			c, err := control.New(2, []float64{1, 5}, control.WithSeed(3))
			Expect(err).NotTo(HaveOccurred())

			u, err := c.Step(dynamo.Vector{0, 0}, dynamo.Vector{1, 0})
			Expect(err).NotTo(HaveOccurred())

			b := c.Basis()
			Expect(b.At(0, 0)).To(BeNumerically("~", 1, eps))
			Expect(b.At(1, 0)).To(BeNumerically("~", 0, eps))
			Expect(math.Abs(b.At(1, 1))).To(BeNumerically("~", 1, eps))
			Expect(b.At(0, 1)).To(BeNumerically("~", 0, eps))

			expectDamping(c.Damping(), []float64{1, 5})
			Expect(u[0]).To(BeNumerically("~", 1, eps))
			Expect(u[1]).To(BeNumerically("~", 0, eps))
		})

		It("damps isotropically with a single eigenvalue (B)", func() {
			c, err := control.New(3, []float64{2}, control.WithSeed(4))
			Expect(err).NotTo(HaveOccurred())

			u, err := c.Step(dynamo.Vector{0, 0, 0}, dynamo.Vector{0, 0, 1})
			Expect(err).NotTo(HaveOccurred())

			expectDamping(c.Damping(), []float64{2, 2, 2})
			Expect(u[0]).To(BeNumerically("~", 0, eps))
			Expect(u[1]).To(BeNumerically("~", 0, eps))
			Expect(u[2]).To(BeNumerically("~", 2, eps))
		})

		It("holds the frame below the minimum speed (C)", func() {
			c, err := control.New(2, []float64{1, 1}, control.WithSeed(5))
			Expect(err).NotTo(HaveOccurred())
			_, err = c.Step(dynamo.Vector{0, 0}, dynamo.Vector{1, 0})
			Expect(err).NotTo(HaveOccurred())
			before := c.Basis()

			current := dynamo.Vector{0.5, -0.3}
			u, err := c.Step(current, dynamo.Vector{0, 0})
			Expect(err).NotTo(HaveOccurred())

			Expect(mat.Equal(before, c.Basis())).To(BeTrue())
			Expect(u[0]).To(BeNumerically("~", -0.5, eps))
			Expect(u[1]).To(BeNumerically("~", 0.3, eps))
		})

		It("produces no controller without eigenvalues (D)", func() {
			c, err := control.New(3, nil)
			Expect(err).To(MatchError(control.ErrEmptyEigenvalues))
			Expect(c).To(BeNil())
		})
	})

	Describe("Step", func() {
		var c *control.PassiveDS

		BeforeEach(func() {
			var err error
			c, err = control.New(3, []float64{4, 1}, control.WithSeed(11))
			Expect(err).NotTo(HaveOccurred())
			_, err = c.Step(dynamo.Vector{0.1, 0.2, 0.3}, dynamo.Vector{1, 1, 0})
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports dimension mismatches and leaves state unchanged", func() {
			basis, damping := c.Basis(), c.Damping()

			_, err := c.Step(dynamo.Vector{0, 0}, dynamo.Vector{1, 0, 0})
			Expect(err).To(MatchError(control.ErrInvalidDimension))
			_, err = c.Step(dynamo.Vector{0, 0, 0}, dynamo.Vector{1, 0, 0, 0})
			Expect(err).To(MatchError(control.ErrInvalidDimension))

			Expect(mat.Equal(basis, c.Basis())).To(BeTrue())
			Expect(mat.Equal(damping, c.Damping())).To(BeTrue())
		})

		It("rejects non-finite input", func() {
			_, err := c.Step(dynamo.Vector{math.Inf(1), 0, 0}, dynamo.Vector{1, 0, 0})
			Expect(err).To(MatchError(control.ErrNonFinite))
			_, err = c.Step(dynamo.Vector{0, 0, 0}, dynamo.Vector{math.NaN(), 0, 0})
			Expect(err).To(MatchError(control.ErrNonFinite))
		})

		It("keeps frame and damping fixed across consecutive holds", func() {
			_, err := c.Step(dynamo.Vector{1, 0, 0}, dynamo.Vector{1e-8, 0, 0})
			Expect(err).NotTo(HaveOccurred())
			basis, damping := c.Basis(), c.Damping()

			for i := 0; i < 5; i++ {
				_, err := c.Step(dynamo.Vector{float64(i), 1, -1}, dynamo.Vector{0, 1e-7, 0})
				Expect(err).NotTo(HaveOccurred())
				Expect(mat.Equal(basis, c.Basis())).To(BeTrue())
				Expect(mat.Equal(damping, c.Damping())).To(BeTrue())
			}
		})

		It("survives an abrupt turn onto a previous frame axis", func() {
			b := c.Basis()
			axis := dynamo.FromVec(b.ColView(1))

			_, err := c.Step(dynamo.Vector{0, 0, 0}, axis)
			Expect(err).NotTo(HaveOccurred())
			expectOrthonormal(c.Basis())
			for i := 0; i < 3; i++ {
				Expect(c.Basis().At(i, 0)).To(BeNumerically("~", axis[i], eps))
			}
		})

		It("returns only feed-forward when the plant is at rest", func() {
			desired := dynamo.Vector{0, 2, 0}
			u, err := c.Step(dynamo.Vector{0, 0, 0}, desired)
			Expect(err).NotTo(HaveOccurred())
			for i := range u {
				Expect(u[i]).To(BeNumerically("~", 4*desired[i], eps))
			}
		})
	})

	Describe("invariants under random driving", func() {
		It("keeps the frame orthonormal and the damping symmetric PSD", func() {
			rng := rand.New(rand.NewSource(42))
			for _, n := range []int{1, 2, 3, 6} {
				c, err := control.New(n, []float64{5, 0.5, 0}, control.WithRand(rng), control.WithMinSpeed(1e-3))
				if n < 3 {
					Expect(err).To(MatchError(control.ErrInvalidDimension))
					c, err = control.New(n, []float64{5}, control.WithRand(rng))
				}
				Expect(err).NotTo(HaveOccurred())

				for i := 0; i < 200; i++ {
					current := make(dynamo.Vector, n)
					desired := make(dynamo.Vector, n)
					for k := 0; k < n; k++ {
						current[k] = rng.NormFloat64()
						desired[k] = rng.NormFloat64()
					}
					_, err := c.Step(current, desired)
					Expect(err).NotTo(HaveOccurred())

					expectOrthonormal(c.Basis())
					d := c.Damping()
					Expect(control.SymmetryError(d)).To(BeNumerically("<", eps))

					x := make(dynamo.Vector, n)
					for k := range x {
						x[k] = rng.NormFloat64()
					}
					Expect(mat.Inner(x.Vec(), d, x.Vec())).To(BeNumerically(">=", -eps))
				}
			}
		})
	})
})
