package cloth_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/clothsim/internal/cloth"
)

var _ = Describe("Constraint", func() {
	var ps []cloth.Particle

	BeforeEach(func() {
		ps = []cloth.Particle{
			cloth.NewParticle(0, 0, false),
			cloth.NewParticle(25, 0, false),
		}
	})

	Describe("NewConstraint", func() {
		It("captures the initial distance as rest length", func() {
			c, err := cloth.NewConstraint(ps, 0, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.RestLength).To(Equal(25.0))
			Expect(c.Active).To(BeTrue())
		})

		It("rejects coincident particles", func() {
			ps[1].Position = ps[0].Position
			_, err := cloth.NewConstraint(ps, 0, 1)
			Expect(err).To(MatchError(cloth.ErrDegenerateConstraint))
		})

		It("rejects self links and out of range indices", func() {
			_, err := cloth.NewConstraint(ps, 1, 1)
			Expect(err).To(MatchError(cloth.ErrInvalidIndex))
			_, err = cloth.NewConstraint(ps, 0, 2)
			Expect(err).To(MatchError(cloth.ErrInvalidIndex))
			_, err = cloth.NewConstraint(ps, -1, 0)
			Expect(err).To(MatchError(cloth.ErrInvalidIndex))
		})
	})

	Describe("Satisfy", func() {
		var c cloth.Constraint

		BeforeEach(func() {
			var err error
			c, err = cloth.NewConstraint(ps, 0, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("never increases the error between two free particles", func() {
			ps[1].Position = cloth.V(40, 10)
			prev := math.Abs(c.Length(ps) - c.RestLength)
			for pass := 0; pass < 10; pass++ {
				c.Satisfy(ps)
				e := math.Abs(c.Length(ps) - c.RestLength)
				Expect(e).To(BeNumerically("<=", prev+1e-12))
				prev = e
			}
			Expect(prev).To(BeNumerically("<", 1e-9))
		})

		It("moves free endpoints by equal and opposite amounts along the axis", func() {
			ps[0].Position = cloth.V(3, -2)
			ps[1].Position = cloth.V(37, 9)
			a0, b0 := ps[0].Position, ps[1].Position
			axis := b0.Sub(a0)

			c.Satisfy(ps)

			da := ps[0].Position.Sub(a0)
			db := ps[1].Position.Sub(b0)
			Expect(da.X).To(BeNumerically("~", -db.X, 1e-12))
			Expect(da.Y).To(BeNumerically("~", -db.Y, 1e-12))
			Expect(da.X*axis.Y - da.Y*axis.X).To(BeNumerically("~", 0, 1e-9))
		})

		It("moves only the free endpoint when the other is pinned", func() {
			ps[0].Pinned = true
			ps[1].Position = cloth.V(35, 0)
			anchor := ps[0].Position

			c.Satisfy(ps)

			Expect(ps[0].Position).To(Equal(anchor))
			Expect(ps[1].Position.X).To(BeNumerically("~", 25, 1e-12))
			Expect(ps[1].Position.Y).To(Equal(0.0))
			Expect(c.Length(ps)).To(BeNumerically("~", c.RestLength, 1e-12))
		})

		It("gives the whole correction to A when B is pinned", func() {
			ps[1].Pinned = true
			ps[0].Position = cloth.V(-10, 0)

			c.Satisfy(ps)

			Expect(ps[1].Position).To(Equal(cloth.V(25, 0)))
			Expect(ps[0].Position.X).To(BeNumerically("~", 0, 1e-12))
			Expect(ps[0].Position.Y).To(Equal(0.0))
		})

		It("is a no-op when both endpoints are pinned", func() {
			ps[0].Pinned, ps[1].Pinned = true, true
			ps[1].Position = cloth.V(50, 0)
			c.Satisfy(ps)
			Expect(ps[0].Position).To(Equal(cloth.V(0, 0)))
			Expect(ps[1].Position).To(Equal(cloth.V(50, 0)))
		})

		It("skips inactive links", func() {
			ps[1].Position = cloth.V(50, 0)
			c.Active = false
			c.Satisfy(ps)
			Expect(ps[1].Position).To(Equal(cloth.V(50, 0)))
		})

		It("leaves coincident endpoints alone", func() {
			ps[1].Position = ps[0].Position
			c.Satisfy(ps)
			Expect(ps[0].Position.IsValid()).To(BeTrue())
			Expect(ps[1].Position.IsValid()).To(BeTrue())
		})
	})

	It("reports stretch relative to rest length", func() {
		c, err := cloth.NewConstraint(ps, 0, 1)
		Expect(err).NotTo(HaveOccurred())
		ps[1].Position = cloth.V(50, 0)
		Expect(c.Stretch(ps)).To(BeNumerically("~", 2.0, 1e-12))
	})
})
