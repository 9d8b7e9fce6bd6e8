package dispatch_test

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/nazuki/dispatch"
	"github.com/sarchlab/nazuki/emit"
	"github.com/sarchlab/nazuki/isa"
	"github.com/sarchlab/nazuki/lower"
	"github.com/sarchlab/nazuki/verify"
)

// randomProgram returns a program that never underflows and prints every
// value it computes.
func randomProgram(r *rand.Rand, n int) isa.Program {
	consts := []int32{0, 1, 2, 3, 7, 31, 32, -1, -2, 334, 1 << 30, -1 << 31}
	var p isa.Program
	depth := 0
	for len(p) < n {
		switch k := r.Intn(10); {
		case depth == 0 || k < 3:
			v := consts[r.Intn(len(consts))]
			if r.Intn(2) == 0 {
				v = r.Int31() - r.Int31()
			}
			p = append(p, isa.Const(v))
			depth++
		case k < 5:
			p = append(p, []isa.Inst{isa.Not(), isa.Inc(), isa.Print()}[r.Intn(3)])
			if p[len(p)-1].Op == isa.OpPrint {
				depth--
			}
		case depth >= 2:
			p = append(p, []isa.Inst{isa.And(), isa.Or(), isa.Xor(), isa.Shl()}[r.Intn(4)])
			depth--
		}
	}
	for ; depth > 0; depth-- {
		p = append(p, isa.Print())
	}
	return p
}

func run(code string) *verify.FunctionalSimulator {
	fs, err := verify.NewFunctionalSimulator(code)
	Expect(err).NotTo(HaveOccurred())
	Expect(fs.Run(0)).To(Succeed())
	return fs
}

var _ = Describe("OpcodeTable", func() {
	It("should number instructions by reverse first occurrence", func() {
		a, b, c := isa.Const(1), isa.Not(), isa.Print()
		t, err := dispatch.BuildOpcodeTable(isa.Program{a, b, a, c})
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Len()).To(Equal(3))

		for inst, want := range map[isa.Inst]int{c: 0, a: 1, b: 2} {
			id, ok := t.ID(inst)
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal(want))
			Expect(t.Inst(id)).To(Equal(inst))
		}
		_, ok := t.ID(isa.Xor())
		Expect(ok).To(BeFalse())
	})

	It("should accept exactly 256 distinct instructions", func() {
		var p isa.Program
		for i := 0; i < dispatch.MaxOpcodes; i++ {
			p = append(p, isa.Const(int32(i)), isa.Const(int32(i)))
		}
		t, err := dispatch.BuildOpcodeTable(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Len()).To(Equal(256))

		_, err = dispatch.BuildOpcodeTable(append(p, isa.Const(-1)))
		Expect(err).To(MatchError(dispatch.ErrTooManyInstructions))
	})
})

var _ = Describe("Compiler", func() {
	var (
		mockCtrl *gomock.Controller
		lowerer  *MockLowerer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		lowerer = NewMockLowerer(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("with a mock lowerer", func() {
		It("should lower each distinct instruction once in dispatch mode", func() {
			p := isa.Program{isa.Const(5), isa.Not(), isa.Const(5), isa.Not(), isa.Print()}
			lowerer.EXPECT().Lower(gomock.Any(), isa.Const(5)).Times(1)
			lowerer.EXPECT().Lower(gomock.Any(), isa.Not()).Times(1)
			lowerer.EXPECT().Lower(gomock.Any(), isa.Print()).Times(1)

			c := dispatch.NewBuilder().WithLowerer(lowerer).WithStrict(true).Build("Compiler")
			code, err := c.Compile(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(verify.RunLint(code)).To(BeEmpty())
		})

		It("should lower every instruction in inline mode", func() {
			p := isa.Program{isa.Const(5), isa.Const(5), isa.Print()}
			gomock.InOrder(
				lowerer.EXPECT().Lower(gomock.Any(), isa.Const(5)).Times(2),
				lowerer.EXPECT().Lower(gomock.Any(), isa.Print()),
			)

			c := dispatch.NewBuilder().
				WithLowerer(lowerer).
				WithMode(dispatch.ModeInline).
				Build("Compiler")
			_, err := c.Compile(p)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should run the routine with the pointer on the stack terminus", func() {
			// the marked cell looks like a pushed head to the next seek
			lowerer.EXPECT().Lower(gomock.Any(), gomock.Any()).
				Do(func(e *emit.Emitter, inst isa.Inst) {
					e.Add(0, 42)
				}).Times(2)

			p := isa.Program{isa.Inc(), isa.Not(), isa.Inc()}
			c := dispatch.NewBuilder().WithLowerer(lowerer).Build("Compiler")
			code, err := c.Compile(p)
			Expect(err).NotTo(HaveOccurred())

			fs := run(code)
			floor := len(p) * dispatch.QueueStride
			Expect(fs.Pointer()).To(Equal(floor))
			for i := 1; i <= len(p); i++ {
				Expect(fs.Cell(floor + i*lower.BlockWidth)).To(Equal(byte(42)))
			}
			Expect(fs.Cell(floor)).To(BeZero())
		})

		DescribeTable("should not call the lowerer when the table overflows",
			func(mode dispatch.Mode) {
				var p isa.Program
				for i := 0; i <= dispatch.MaxOpcodes; i++ {
					p = append(p, isa.Const(int32(i)))
				}
				c := dispatch.NewBuilder().WithLowerer(lowerer).WithMode(mode).Build("Compiler")
				code, err := c.Compile(p)
				Expect(err).To(MatchError(dispatch.ErrTooManyInstructions))
				Expect(code).To(BeEmpty())
			},
			Entry("in dispatch mode", dispatch.ModeDispatch),
			Entry("in inline mode", dispatch.ModeInline),
		)
	})

	DescribeTable("should produce nothing for an empty program",
		func(mode dispatch.Mode) {
			c := dispatch.NewBuilder().WithMode(mode).WithStrict(true).Build("Compiler")
			Expect(c.Name()).To(Equal("Compiler"))
			code, err := c.Compile(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(BeEmpty())
		},
		Entry("in dispatch mode", dispatch.ModeDispatch),
		Entry("in inline mode", dispatch.ModeInline),
	)

	It("should reject unknown modes", func() {
		Expect(func() { dispatch.NewBuilder().WithMode(dispatch.Mode(9)) }).To(Panic())
		_, err := dispatch.ParseMode("jit")
		Expect(err).To(HaveOccurred())
		m, err := dispatch.ParseMode("inline")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(dispatch.ModeInline))
	})

	DescribeTable("generated code",
		func(mode dispatch.Mode) {
			c := dispatch.NewBuilder().WithMode(mode).WithStrict(true).Build("Compiler")

			code, err := c.Compile(isa.DemoProgram())
			Expect(err).NotTo(HaveOccurred())
			Expect(verify.RunLint(code)).To(BeEmpty())
			Expect(strings.Trim(code, "+-<>[],.")).To(BeEmpty())
			Expect(run(code).Output()).To(Equal("334-31"))

			r := rand.New(rand.NewSource(1))
			for i := 0; i < 8; i++ {
				p := randomProgram(r, 12)
				want, err := verify.Evaluate(p)
				Expect(err).NotTo(HaveOccurred())

				code, err := c.Compile(p)
				Expect(err).NotTo(HaveOccurred())
				Expect(run(code).Output()).To(Equal(want), "program:\n%s", p)
			}
		},
		Entry("in dispatch mode", dispatch.ModeDispatch),
		Entry("in inline mode", dispatch.ModeInline),
	)

	It("should decode many distinct opcodes", func() {
		var p isa.Program
		var want strings.Builder
		for i := 20; i >= 0; i-- {
			p = append(p, isa.Const(int32(i*i)), isa.Print())
			want.WriteString(strconv.Itoa(i * i))
		}

		code, err := dispatch.NewBuilder().Build("Compiler").Compile(p)
		Expect(err).NotTo(HaveOccurred())
		fs := run(code)
		Expect(fs.Output()).To(Equal(want.String()))
		Expect(fs.Pointer()).To(Equal(len(p) * dispatch.QueueStride))
	})

	It("should leave the floor block and the stack clean", func() {
		p := isa.Program{isa.Const(9), isa.Const(-3), isa.Xor(), isa.Inc(), isa.Const(4), isa.Shl()}
		code, err := dispatch.NewBuilder().Build("Compiler").Compile(p)
		Expect(err).NotTo(HaveOccurred())

		fs := run(code)
		floor := len(p) * dispatch.QueueStride
		for i := 0; i < lower.BlockWidth; i++ {
			Expect(fs.Cell(floor + i)).To(BeZero())
		}
		Expect(fs.Cell(floor + lower.BlockWidth)).To(Equal(byte(1)))
		Expect(fs.Word(floor + lower.BlockWidth)).To(Equal(int32(((9 ^ -3) + 1) << 4)))
		Expect(fs.Cell(floor + 2*lower.BlockWidth)).To(BeZero())
	})
})
