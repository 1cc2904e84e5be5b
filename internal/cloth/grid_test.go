package cloth_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/clothsim/internal/cloth"
)

var _ = Describe("NewGrid", func() {
	It("builds structural links only", func() {
		c, err := cloth.NewGrid(cloth.Topology{Rows: 20, Cols: 30, RestDistance: 25, Pin: cloth.PinTop})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Particles).To(HaveLen(600))
		Expect(c.Constraints).To(HaveLen(20*29 + 19*30))
		for _, cs := range c.Constraints {
			Expect(cs.RestLength).To(BeNumerically("~", 25, 1e-12))
			d := cs.B - cs.A
			Expect(d == 1 || d == 30).To(BeTrue())
		}
	})

	It("lays particles out row-major from the origin", func() {
		c, err := cloth.NewGrid(cloth.Topology{Rows: 3, Cols: 4, RestDistance: 10, Origin: cloth.V(100, 50)})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Particles[c.Index(2, 3)].Position).To(Equal(cloth.V(130, 70)))
		Expect(c.Particles[c.Index(2, 3)].Previous).To(Equal(cloth.V(130, 70)))
	})

	DescribeTable("pin policies",
		func(pin cloth.PinPolicy, want []int) {
			c, err := cloth.NewGrid(cloth.Topology{Rows: 3, Cols: 3, RestDistance: 10, Pin: pin})
			Expect(err).NotTo(HaveOccurred())
			var got []int
			for i, p := range c.Particles {
				if p.Pinned {
					got = append(got, i)
				}
			}
			if len(want) == 0 {
				Expect(got).To(BeEmpty())
				return
			}
			Expect(got).To(Equal(want))
		},
		Entry("top row", cloth.PinTop, []int{0, 1, 2}),
		Entry("default is top row", cloth.PinPolicy(""), []int{0, 1, 2}),
		Entry("corners", cloth.PinCorners, []int{0, 2}),
		Entry("none", cloth.PinNone, nil),
	)

	DescribeTable("rejects bad topologies",
		func(t cloth.Topology) {
			_, err := cloth.NewGrid(t)
			Expect(err).To(MatchError(cloth.ErrInvalidTopology))
		},
		Entry("zero rows", cloth.Topology{Rows: 0, Cols: 3, RestDistance: 10}),
		Entry("zero cols", cloth.Topology{Rows: 3, Cols: 0, RestDistance: 10}),
		Entry("zero spacing", cloth.Topology{Rows: 3, Cols: 3}),
		Entry("unknown pin", cloth.Topology{Rows: 3, Cols: 3, RestDistance: 10, Pin: "sides"}),
	)

	It("keeps constraint indices valid for the arena", func() {
		c, err := cloth.NewGrid(cloth.Topology{Rows: 5, Cols: 5, RestDistance: 10})
		Expect(err).NotTo(HaveOccurred())
		for _, cs := range c.Constraints {
			Expect(cs.A).To(BeNumerically("<", len(c.Particles)))
			Expect(cs.B).To(BeNumerically("<", len(c.Particles)))
		}
		Expect(cap(c.Particles)).To(Equal(len(c.Particles)))
	})

	Describe("mutation", func() {
		var c *cloth.Cloth

		BeforeEach(func() {
			var err error
			c, err = cloth.NewGrid(cloth.Topology{Rows: 2, Cols: 2, RestDistance: 25})
			Expect(err).NotTo(HaveOccurred())
		})

		It("moves free particles with zero velocity", func() {
			Expect(c.Move(3, cloth.V(1, 2))).To(Succeed())
			Expect(c.Particles[3].Position).To(Equal(cloth.V(1, 2)))
			Expect(c.Particles[3].Velocity()).To(Equal(cloth.Vec2{}))
		})

		It("refuses to move pinned particles", func() {
			Expect(c.Move(0, cloth.V(1, 2))).To(MatchError(cloth.ErrPinned))
			Expect(c.Move(9, cloth.V(1, 2))).To(MatchError(cloth.ErrInvalidIndex))
		})

		It("cuts links idempotently", func() {
			Expect(c.Cut(1)).To(Succeed())
			Expect(c.Cut(1)).To(Succeed())
			Expect(c.Constraints[1].Active).To(BeFalse())
			Expect(c.Cut(len(c.Constraints))).To(MatchError(cloth.ErrInvalidIndex))
		})

		It("counts broken links in stats", func() {
			Expect(c.Cut(0)).To(Succeed())
			s := c.Stats(0.1)
			Expect(s.Broken).To(Equal(1))
			Expect(s.Active).To(Equal(3))
			Expect(s.MaxStretch).To(BeNumerically("~", 1, 1e-12))
			Expect(s.Sway).To(BeNumerically("~", 0, 1e-12))
			Expect(s.Kinetic).To(Equal(0.0))
		})
	})
})
