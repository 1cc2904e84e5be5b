package cloth_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/clothsim/internal/cloth"
)

var _ = Describe("Particle", func() {
	Describe("Update", func() {
		It("carries the previous displacement and adds acc*dt²", func() {
			p := cloth.NewParticle(10, 10, false)
			p.Previous = cloth.V(9, 10)
			p.ApplyForce(cloth.V(0, 10))
			p.ApplyForce(cloth.V(2, 0))
			p.Update(0.1)

			Expect(p.Position.X).To(BeNumerically("~", 11.02, 1e-12))
			Expect(p.Position.Y).To(BeNumerically("~", 10.1, 1e-12))
			Expect(p.Previous).To(Equal(cloth.V(10, 10)))
			Expect(p.Acc).To(Equal(cloth.Vec2{}))
		})

		It("keeps pinned particles in place regardless of forces", func() {
			p := cloth.NewParticle(640, 360, true)
			before := p.Position
			for frame := 0; frame < 50; frame++ {
				p.ApplyForce(cloth.V(1e6, -1e6))
				p.Update(0.1)
				p.ConstrainToBounds(1920, 1080)
				Expect(p.Position).To(Equal(before))
			}
			Expect(p.Acc).To(Equal(cloth.Vec2{}))
		})
	})

	DescribeTable("ConstrainToBounds",
		func(x, y float64) {
			p := cloth.NewParticle(x, y, false)
			p.ConstrainToBounds(800, 600)
			Expect(p.Position.X).To(BeNumerically(">=", 0))
			Expect(p.Position.X).To(BeNumerically("<=", 800))
			Expect(p.Position.Y).To(BeNumerically(">=", 0))
			Expect(p.Position.Y).To(BeNumerically("<=", 600))
		},
		Entry("inside", 400.0, 300.0),
		Entry("left", -50.0, 300.0),
		Entry("right", 900.0, 300.0),
		Entry("above", 400.0, -1.0),
		Entry("below", 400.0, 1e9),
		Entry("corner", -1e9, 1e9),
	)

	It("clamps without touching the previous position", func() {
		p := cloth.NewParticle(810, 300, false)
		p.Previous = cloth.V(805, 300)
		p.ConstrainToBounds(800, 600)
		Expect(p.Position.X).To(Equal(800.0))
		Expect(p.Previous.X).To(Equal(805.0))
	})
})
