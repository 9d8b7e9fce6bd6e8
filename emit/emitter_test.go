package emit

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Buffer", func() {
	var b Buffer

	BeforeEach(func() {
		b = Buffer{}
	})

	It("should cancel adjacent inverse pairs", func() {
		Expect(b.AppendString("+-")).To(Succeed())
		Expect(b.Build()).To(Equal(""))
		Expect(b.AppendString("><")).To(Succeed())
		Expect(b.Len()).To(Equal(0))
		Expect(b.AppendString("<>-+")).To(Succeed())
		Expect(b.Build()).To(Equal(""))
	})

	It("should look back only one command", func() {
		Expect(b.AppendString("+-+")).To(Succeed())
		Expect(b.Build()).To(Equal("+"))

		b = Buffer{}
		Expect(b.AppendString("+><+")).To(Succeed())
		Expect(b.Build()).To(Equal("++"))

		b = Buffer{}
		Expect(b.AppendString("+>-<")).To(Succeed())
		Expect(b.Build()).To(Equal("+>-<"))
	})

	It("should never cancel brackets or I/O", func() {
		Expect(b.AppendString("[],.][.,")).To(Succeed())
		Expect(b.Build()).To(Equal("[],.][.,"))
	})

	It("should build repeatably", func() {
		Expect(b.AppendString("+>[-]<.")).To(Succeed())
		first := b.Build()
		Expect(b.Build()).To(Equal(first))
		Expect(b.Len()).To(Equal(7))
	})

	It("should reject foreign characters", func() {
		Expect(b.AppendString("+a")).To(MatchError(ErrBadSymbol))
		Expect(b.Build()).To(Equal("+"))
	})
})

var _ = Describe("Emitter", func() {
	var e *Emitter

	BeforeEach(func() {
		e = NewEmitter()
		e.SetStrict(true)
	})

	Context("Pointer Algebra", func() {
		It("should move in both directions", func() {
			e.MoveBy(3)
			e.MoveBy(-5)
			Expect(e.Build()).To(Equal("<<"))
			Expect(e.Pos()).To(Equal(-2))
			e.MoveBy(0)
			Expect(e.Len()).To(Equal(2))
		})

		It("should leave the pointer in place after Add", func() {
			e.Add(3, 2)
			e.Add(-1, -1)
			Expect(e.Build()).To(Equal(">>>++<<<<->"))
			Expect(e.Pos()).To(Equal(0))
		})

		It("should merge consecutive visits", func() {
			e.Add(2, 1)
			e.Add(3, 1)
			Expect(e.Build()).To(Equal(">>+>+<<<"))
		})

		It("should reduce Add modulo 256", func() {
			e.Add(0, 255)
			Expect(e.Build()).To(Equal("-"))
			e = NewEmitter()
			e.Add(0, -300)
			Expect(e.Build()).To(Equal(strings.Repeat("-", 44)))
		})

		It("should track Raw moves and reject bad text", func() {
			Expect(e.Raw(">>+<")).To(Succeed())
			Expect(e.Pos()).To(Equal(1))
			Expect(e.Raw("+q")).To(MatchError(ErrBadSymbol))
			Expect(e.Build()).To(Equal(">>+<"))
		})

		It("should write through a slot", func() {
			e.Write(1)
			Expect(e.Build()).To(Equal(">.<"))
			Expect(e.Pos()).To(Equal(0))
		})

		It("should report strict mode", func() {
			Expect(e.Strict()).To(BeTrue())
			e.SetStrict(false)
			Expect(e.Strict()).To(BeFalse())
		})
	})

	Context("Control Builders", func() {
		It("should emit the canonical loop shape", func() {
			e.WhileNonzero(2, func() { e.Add(2, -1) })
			Expect(e.Build()).To(Equal(">>[-]<<"))
			Expect(e.Pos()).To(Equal(0))
		})

		It("should panic on a body that moves in strict mode", func() {
			Expect(func() {
				e.WhileNonzero(0, func() { e.MoveBy(1) })
			}).To(Panic())

			e.SetStrict(false)
			Expect(func() {
				e.WhileNonzero(0, func() { e.MoveBy(1) })
			}).NotTo(Panic())
		})

		It("should set a cell regardless of its old value", func() {
			e.Set(1, 7)
			fs := run(0, map[int]byte{1: 200}, e.Build())
			Expect(fs.Cell(1)).To(Equal(byte(7)))
			Expect(fs.Pointer()).To(Equal(0))
		})

		It("should move a value into several destinations", func() {
			e.Move(0, To(2), Neg(3), Dest{Slot: 4, Factor: 3})
			fs := run(0, map[int]byte{0: 5, 2: 1}, e.Build())
			Expect(fs.Cell(0)).To(Equal(byte(0)))
			Expect(fs.Cell(2)).To(Equal(byte(6)))
			Expect(fs.Cell(3)).To(Equal(byte(251)))
			Expect(fs.Cell(4)).To(Equal(byte(15)))
		})

		DescribeTable("IfElse",
			func(flag byte, want byte) {
				e.IfElse(1, 2,
					func() { e.Add(3, 10) },
					func() { e.Add(3, 20) },
				)
				Expect(e.Pos()).To(Equal(0))

				fs := run(0, map[int]byte{1: flag}, e.Build())
				Expect(fs.Cell(3)).To(Equal(want))
				Expect(fs.Cell(1)).To(Equal(byte(0)))
				Expect(fs.Cell(2)).To(Equal(byte(0)))
				Expect(fs.Pointer()).To(Equal(0))
			},
			Entry("takes the then branch on 1", byte(1), byte(10)),
			Entry("takes the else branch on 0", byte(0), byte(20)),
		)

		It("should run both IfElse branches with flag and scratch cleared", func() {
			// each branch copies the sum flag+scratch into cell 3
			probe := func() { e.Move(1, To(3)); e.Move(2, To(3)) }
			e.IfElse(1, 2, probe, probe)

			for _, flag := range []byte{0, 1} {
				fs := run(0, map[int]byte{1: flag}, e.Build())
				Expect(fs.Cell(3)).To(Equal(byte(0)))
			}
		})

		It("should scan to the next zero cell", func() {
			e.Scan(2)
			Expect(e.Build()).To(Equal("[>>]"))
			Expect(e.Pos()).To(Equal(0))

			fs := run(1, map[int]byte{1: 1, 3: 1, 5: 1}, e.Build())
			Expect(fs.Pointer()).To(Equal(7))
		})

		It("should run a walk body on every visited cell", func() {
			e.Walk(-1, func() { e.Add(0, -1) })
			Expect(e.Build()).To(Equal("[-<]"))

			fs := run(4, map[int]byte{2: 1, 3: 1, 4: 1}, e.Build())
			Expect(fs.Pointer()).To(Equal(1))
			Expect(fs.Memory()[:5]).To(Equal([]byte{0, 0, 0, 0, 0}))
		})

		It("should re-anchor the tracked position with Mark and Restore", func() {
			e.MoveBy(2)
			m := e.Mark()
			e.MoveBy(9)
			e.Scan(9)
			Expect(e.Pos()).To(Equal(11))
			e.Restore(m)
			Expect(e.Pos()).To(Equal(2))
		})
	})
})
