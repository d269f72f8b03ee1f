package control_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/passiveds/internal/control"
	"github.com/san-kum/passiveds/internal/dynamo"
)

var _ = Describe("basis builder", func() {
	It("leaves an orthonormal frame unchanged when re-run", func() {
		b, err := control.RandomBasis(4, rand.New(rand.NewSource(9)), eps)
		Expect(err).NotTo(HaveOccurred())

		again := mat.DenseCopyOf(b)
		Expect(control.Orthonormalize(again, eps)).To(Succeed())
		Expect(mat.EqualApprox(b, again, eps)).To(BeTrue())
	})

	It("does not modify the previous frame", func() {
		prev, err := control.RandomBasis(3, rand.New(rand.NewSource(2)), eps)
		Expect(err).NotTo(HaveOccurred())
		snapshot := mat.DenseCopyOf(prev)

		next, err := control.BuildBasis(prev, dynamo.Vector{0, 3, 4}.Vec(), control.DefaultMinSpeed, eps)
		Expect(err).NotTo(HaveOccurred())
		Expect(mat.Equal(prev, snapshot)).To(BeTrue())
		Expect(next.At(1, 0)).To(BeNumerically("~", 0.6, eps))
		Expect(next.At(2, 0)).To(BeNumerically("~", 0.8, eps))
	})

	It("refuses an undefined direction", func() {
		prev := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
		_, err := control.BuildBasis(prev, dynamo.Vector{0, 0}.Vec(), control.DefaultMinSpeed, eps)
		Expect(err).To(MatchError(control.ErrUndefinedDirection))
	})

	It("refuses a direction of the wrong size", func() {
		prev := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
		_, err := control.BuildBasis(prev, dynamo.Vector{1, 0, 0}.Vec(), control.DefaultMinSpeed, eps)
		Expect(err).To(MatchError(control.ErrInvalidDimension))
	})

	It("reports a frame that is not orthonormal", func() {
		skewed := mat.NewDense(2, 2, []float64{1, 0.5, 0, 1})
		Expect(control.CheckOrthonormal(skewed, eps)).To(MatchError(control.ErrOrthonormalization))
		Expect(control.OrthonormalityError(skewed)).To(BeNumerically(">", 0.4))
	})

	It("fails when the first column is zero", func() {
		b := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
		Expect(control.Orthonormalize(b, eps)).To(MatchError(control.ErrOrthonormalization))
	})

	It("replaces a collapsed column with the best coordinate axis", func() {
		b := mat.NewDense(3, 3, []float64{
			0, 0, 1,
			1, 1, 0,
			0, 0, 0,
		})
		Expect(control.Orthonormalize(b, eps)).To(Succeed())
		Expect(control.CheckOrthonormal(b, eps)).To(Succeed())
	})
})

var _ = Describe("damping assembler", func() {
	It("expresses the eigenvalues in the frame", func() {
		s := 1 / 1.4142135623730951
		basis := mat.NewDense(2, 2, []float64{s, -s, s, s})
		eig, err := control.EigenDiagonal(2, []float64{3, 1})
		Expect(err).NotTo(HaveOccurred())

		d, err := control.AssembleDamping(basis, eig)
		Expect(err).NotTo(HaveOccurred())

		Expect(d.At(0, 0)).To(BeNumerically("~", 2, eps))
		Expect(d.At(1, 1)).To(BeNumerically("~", 2, eps))
		Expect(d.At(0, 1)).To(BeNumerically("~", 1, eps))

		lowest, err := control.MinEigenvalue(d)
		Expect(err).NotTo(HaveOccurred())
		Expect(lowest).To(BeNumerically("~", 1, eps))
	})

	It("rejects mismatched operands", func() {
		eig, err := control.EigenDiagonal(3, []float64{1})
		Expect(err).NotTo(HaveOccurred())
		_, err = control.AssembleDamping(mat.NewDense(2, 2, nil), eig)
		Expect(err).To(MatchError(control.ErrInvalidDimension))
	})
})

var _ = Describe("Check", func() {
	It("passes for a well-configured controller", func() {
		c, err := control.New(4, []float64{6, 2, 0.5}, control.WithSeed(21))
		Expect(err).NotTo(HaveOccurred())

		rep := control.Check(c, 300, rand.New(rand.NewSource(5)))
		Expect(rep.Err).NotTo(HaveOccurred())
		Expect(rep.Passed()).To(BeTrue())
		Expect(rep.Cycles).To(Equal(300))
		Expect(rep.Held).To(BeNumerically(">", 0))
		Expect(rep.MinEigenvalue).To(BeNumerically(">=", 0.5-eps))
		Expect(rep.MinPower).To(BeNumerically(">=", 0.5-eps))
	})
})
