package scene_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eulerflow/internal/scene"
)

var _ = Describe("DefaultParams", func() {
	It("halves the tank resolution and enables gravity", func() {
		p := scene.DefaultParams(scene.Tank)
		Expect(p.Resolution).To(Equal(50))
		Expect(p.Gravity).To(Equal(-9.81))
		Expect(p.Display.Pressure).To(BeTrue())
		Expect(p.Display.Smoke).To(BeFalse())
	})

	It("tightens the hires tunnel budget", func() {
		p := scene.DefaultParams(scene.HiresTunnel)
		Expect(p.Dt).To(BeNumerically("~", 1.0/120.0, 1e-12))
		Expect(p.NumIters).To(Equal(100))
		Expect(p.Display.Pressure).To(BeTrue())
		Expect(p.Display.Smoke).To(BeTrue())
	})

	It("neutralizes over-relaxation for paint", func() {
		p := scene.DefaultParams(scene.Paint)
		Expect(p.OverRelaxation).To(Equal(1.0))
		Expect(p.ObstacleRadius).To(Equal(0.05))
		Expect(p.Display.SmokeGradient).To(BeTrue())
	})

	It("keeps gravity off outside the tank", func() {
		for _, t := range []scene.Type{scene.WindTunnel, scene.HiresTunnel, scene.Paint} {
			Expect(scene.DefaultParams(t).Gravity).To(BeZero())
		}
	})
})

var _ = Describe("New", func() {
	It("derives the grid from resolution and aspect ratio", func() {
		s, err := scene.New(scene.DefaultParams(scene.WindTunnel))
		Expect(err).NotTo(HaveOccurred())
		f := s.Fluid()
		Expect(f.NumX).To(Equal(179))
		Expect(f.NumY).To(Equal(102))
		Expect(f.H).To(BeNumerically("~", 0.01, 1e-12))

		w, h := s.Bounds()
		Expect(h).To(Equal(1.0))
		Expect(w).To(BeNumerically("~", 160.0/90.0, 1e-12))
	})

	It("uses the coarser tank grid", func() {
		s, err := scene.New(scene.DefaultParams(scene.Tank))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Fluid().NumX).To(Equal(90))
		Expect(s.Fluid().NumY).To(Equal(52))
	})

	DescribeTable("rejects invalid parameter records",
		func(mutate func(*scene.Params)) {
			p := scene.DefaultParams(scene.WindTunnel)
			mutate(&p)
			_, err := scene.New(p)
			Expect(err).To(MatchError(scene.ErrInvalidParams))
		},
		Entry("non-positive dt", func(p *scene.Params) { p.Dt = 0 }),
		Entry("non-positive iterations", func(p *scene.Params) { p.NumIters = 0 }),
		Entry("over-relaxation at 2", func(p *scene.Params) { p.OverRelaxation = 2.0 }),
		Entry("tiny resolution", func(p *scene.Params) { p.Resolution = 3 }),
		Entry("negative density", func(p *scene.Params) { p.Density = -1 }),
		Entry("zero width", func(p *scene.Params) { p.Width = 0 }),
		Entry("zero obstacle radius", func(p *scene.Params) { p.ObstacleRadius = 0 }),
	)
})

var _ = Describe("Presets", func() {
	It("walls the tunnel on three sides and injects the inflow", func() {
		s, _ := scene.New(scene.DefaultParams(scene.WindTunnel))
		f := s.Fluid()
		n := f.NumY

		for j := 0; j < f.NumY; j++ {
			Expect(f.S[0*n+j]).To(Equal(0.0), "left wall at j=%d", j)
			Expect(f.U[1*n+j]).To(Equal(2.0), "inflow at j=%d", j)
		}
		for i := 0; i < f.NumX; i++ {
			Expect(f.S[i*n+0]).To(Equal(0.0), "floor at i=%d", i)
			Expect(f.S[i*n+f.NumY-1]).To(Equal(0.0), "ceiling at i=%d", i)
		}
		Expect(f.S[(f.NumX-1)*n+f.NumY/2]).To(Equal(1.0), "outflow side open")
	})

	It("clears a pipe-shaped marker streak at the inlet", func() {
		s, _ := scene.New(scene.DefaultParams(scene.WindTunnel))
		f := s.Fluid()

		pipe := 0.1 * float64(f.NumY)
		minJ := int(math.Floor(0.5*float64(f.NumY) - 0.5*pipe))
		maxJ := int(math.Floor(0.5*float64(f.NumY) + 0.5*pipe))
		for j := 0; j < f.NumY; j++ {
			want := 1.0
			if j >= minJ && j < maxJ {
				want = 0.0
			}
			Expect(f.M[j]).To(Equal(want), "inlet marker at j=%d", j)
		}
	})

	It("leaves the tank open at the top", func() {
		s, _ := scene.New(scene.DefaultParams(scene.Tank))
		f := s.Fluid()
		n := f.NumY

		for j := 0; j < f.NumY; j++ {
			Expect(f.S[0*n+j]).To(Equal(0.0))
			Expect(f.S[(f.NumX-1)*n+j]).To(Equal(0.0))
		}
		for i := 1; i < f.NumX-1; i++ {
			Expect(f.S[i*n+0]).To(Equal(0.0), "floor at i=%d", i)
			Expect(f.S[i*n+f.NumY-1]).To(Equal(1.0), "open top at i=%d", i)
		}
	})

	It("starts paint fully solid until the first drag", func() {
		s, _ := scene.New(scene.DefaultParams(scene.Paint))
		f := s.Fluid()
		for idx := range f.S {
			Expect(f.S[idx]).To(Equal(0.0))
		}

		s.SetObstacle(0.9, 0.5, true)
		n := f.NumY
		Expect(f.S[1*n+1]).To(Equal(1.0), "scanned corner became fluid")
	})
})

var _ = Describe("Step", func() {
	It("advances the frame counter", func() {
		s, _ := scene.New(scene.DefaultParams(scene.WindTunnel))
		p := s.Params()
		s.Step(p.Dt)
		s.Step(p.Dt)
		Expect(s.Frame()).To(Equal(2))
	})

	It("preserves the tunnel inflow through a full step", func() {
		s, _ := scene.New(scene.DefaultParams(scene.WindTunnel))
		f := s.Fluid()
		n := f.NumY

		s.Step(s.Params().Dt)

		for j := 1; j < f.NumY-1; j++ {
			Expect(f.U[1*n+j]).To(BeNumerically("~", 2.0, 0.05), "inflow at j=%d", j)
		}
	})

	It("builds hydrostatic pressure toward the tank floor", func() {
		s, _ := scene.New(scene.DefaultParams(scene.Tank))
		f := s.Fluid()
		n := f.NumY

		s.Step(s.Params().Dt)

		i := f.NumX / 2
		bottom := f.P[i*n+1]
		top := f.P[i*n+f.NumY-2]
		Expect(bottom).To(BeNumerically(">", top))
		Expect(bottom).To(BeNumerically(">", 0.0))
	})

	It("keeps the solid mask strictly binary", func() {
		s, _ := scene.New(scene.DefaultParams(scene.WindTunnel))
		s.SetObstacle(0.7, 0.5, true)
		for k := 0; k < 5; k++ {
			s.Step(s.Params().Dt)
			s.SetObstacle(0.7+0.01*float64(k), 0.5, false)
		}
		for _, sv := range s.Fluid().S {
			Expect(sv == 0.0 || sv == 1.0).To(BeTrue())
		}
	})
})

var _ = Describe("SetObstacle", func() {
	It("marks exactly the cells inside the radius solid", func() {
		s, _ := scene.New(scene.DefaultParams(scene.WindTunnel))
		f := s.Fluid()
		n := f.NumY
		h := f.H
		x, y, r := 0.8, 0.5, s.Params().ObstacleRadius

		s.SetObstacle(x, y, true)

		for i := 1; i < f.NumX-2; i++ {
			for j := 1; j < f.NumY-2; j++ {
				dx := (float64(i)+0.5)*h - x
				dy := (float64(j)+0.5)*h - y
				want := 1.0
				if dx*dx+dy*dy < r*r {
					want = 0.0
				}
				Expect(f.S[i*n+j]).To(Equal(want), "cell (%d,%d)", i, j)
			}
		}
	})

	It("silently ignores placements outside the margin", func() {
		s, _ := scene.New(scene.DefaultParams(scene.WindTunnel))
		f := s.Fluid()
		before := append([]float64(nil), f.S...)

		w, _ := s.Bounds()
		s.SetObstacle(0.1, 0.5, true)
		s.SetObstacle(w-0.05, 0.5, true)
		s.SetObstacle(0.5, 0.05, true)

		Expect(f.S).To(Equal(before))
	})

	It("imparts drag velocity from the displacement", func() {
		s, _ := scene.New(scene.DefaultParams(scene.WindTunnel))
		f := s.Fluid()
		n := f.NumY
		dt := s.Params().Dt

		s.SetObstacle(0.7, 0.5, true)
		s.Step(dt)
		s.SetObstacle(0.72, 0.5, false)

		// Center cell of the obstacle carries the imparted velocity.
		i := int(0.72/f.H - 0.5)
		j := int(0.5/f.H - 0.5)
		Expect(f.S[i*n+j]).To(Equal(0.0))
		Expect(f.U[i*n+j]).To(BeNumerically("~", 0.02/dt, 1e-9))
		Expect(f.V[i*n+j]).To(BeNumerically("~", 0.0, 1e-9))
	})

	It("stamps dye instead of clean marker in paint mode", func() {
		s, _ := scene.New(scene.DefaultParams(scene.Paint))
		f := s.Fluid()
		n := f.NumY

		s.SetObstacle(0.9, 0.5, true)

		i := int(0.9/f.H - 0.5)
		j := int(0.5/f.H - 0.5)
		Expect(f.S[i*n+j]).To(Equal(0.0))
		Expect(f.M[i*n+j]).To(BeNumerically("~", 0.5+0.5*math.Sin(0.2), 1e-12))
	})
})
