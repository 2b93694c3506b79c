package core

import (
	"io"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/asciiascii/bank"
	"github.com/sarchlab/asciiascii/console"
	. "github.com/sarchlab/asciiascii/program"
)

var _ = Describe("InstEmulator", func() {
	var (
		mockCtrl *gomock.Controller
		con      *MockConsole
		ie       instEmulator
		s        coreState
	)

	load := func(code Program) {
		Expect(s.reset(code, bank.NewTable(0))).To(Succeed())
	}

	run := func() error {
		for n := 0; n < 10000 && !s.Halted; n++ {
			if err := ie.RunInst(&s); err != nil {
				return err
			}
		}

		return nil
	}

	bankOf := func(id int32) *bank.Bank {
		b, ok := s.Banks.Lookup(id)
		Expect(ok).To(BeTrue())
		return b
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		con = NewMockConsole(mockCtrl)
		ie = instEmulator{console: con, requireNumber: true}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start on bank 0 for both sides", func() {
		load(Program{{Op: End}})

		Expect(s.Source).To(BeIdenticalTo(s.Other))
		Expect(s.SourceID).To(Equal(int32(0)))
		Expect(s.Banks.Len()).To(Equal(1))
	})

	It("should stop at End", func() {
		load(Program{{Op: End}})

		Expect(run()).To(Succeed())
		Expect(s.Halted).To(BeTrue())
		Expect(s.IP).To(Equal(0))
	})

	Context("when running Add", func() {
		It("should add a nonzero value", func() {
			load(Program{AddInst('2', 'a'), {Op: End}})

			Expect(run()).To(Succeed())
			Expect(s.Source['2']).To(Equal(int32(99)))
		})

		It("should reset when the added value is zero", func() {
			load(Program{AddInst('x', '0'), {Op: End}})

			Expect(run()).To(Succeed())
			Expect(s.Source['x']).To(Equal(int32(0)))
		})

		It("should double a variable added to itself", func() {
			load(Program{AddInst('q', 'q'), {Op: End}})

			Expect(run()).To(Succeed())
			Expect(s.Source['q']).To(Equal(int32(226)))
		})

		It("should read the second operand from the other bank", func() {
			load(Program{Inst(BankSet, '4'), AddInst('x', 'y'), {Op: End}})
			s.Other['y'] = 0

			Expect(run()).To(Succeed())
			Expect(bankOf(4)['x']).To(Equal(int32(0)))
			Expect(bankOf(0)['x']).To(Equal(int32('x')))
		})
	})

	Context("when switching banks", func() {
		It("should create the bank named by the cell", func() {
			load(Program{Inst(BankSet, '5'), {Op: End}})

			Expect(run()).To(Succeed())
			Expect(s.SourceID).To(Equal(int32(5)))
			Expect(s.OtherID).To(Equal(int32(0)))
			Expect(s.Banks.Len()).To(Equal(2))
		})

		It("should swap source and other", func() {
			load(Program{Inst(BankSet, '5'), {Op: BankSwap}, {Op: End}})

			Expect(run()).To(Succeed())
			Expect(s.SourceID).To(Equal(int32(0)))
			Expect(s.OtherID).To(Equal(int32(5)))
			Expect(s.Source).To(BeIdenticalTo(bankOf(0)))
			Expect(s.Other).To(BeIdenticalTo(bankOf(5)))
		})

		It("should move both sides with BankBoth", func() {
			load(Program{Inst(BankBoth, '7'), {Op: End}})

			Expect(run()).To(Succeed())
			Expect(s.SourceID).To(Equal(int32(7)))
			Expect(s.OtherID).To(Equal(int32(7)))
			Expect(s.Source).To(BeIdenticalTo(s.Other))
		})

		It("should match set, swap, set when the sides differ", func() {
			prefix := Program{Inst(BankSet, '3'), AddInst('v', '1')}

			load(append(append(Program{}, prefix...),
				Inst(BankSet, 'v'), Instruction{Op: BankSwap}, Inst(BankSet, 'v'), Instruction{Op: End}))
			Expect(run()).To(Succeed())
			Expect(s.SourceID).To(Equal(int32('v')))
			Expect(s.OtherID).To(Equal(int32('v' + 1)))

			load(append(append(Program{}, prefix...), Inst(BankBoth, 'v'), Instruction{Op: End}))
			Expect(run()).To(Succeed())
			Expect(s.SourceID).To(Equal(int32('v')))
			Expect(s.OtherID).To(Equal(int32('v' + 1)))
		})

		It("should fail when no more banks can be created", func() {
			Expect(s.reset(Program{Inst(BankSet, '5'), {Op: End}}, bank.NewTable(1))).To(Succeed())

			Expect(run()).To(MatchError(bank.ErrOutOfMemory))
		})
	})

	Context("when running loops", func() {
		It("should run the body once per unit of the value", func() {
			load(Program{
				Inst(LoopBegin, '3'),
				AddInst('c', '1'),
				Inst(LoopEnd, '3'),
				Inst(Else, '3'),
				AddInst('d', '1'),
				Inst(ElseEnd, '3'),
				{Op: End},
			})

			Expect(run()).To(Succeed())
			Expect(s.Source['c']).To(Equal(int32('c' + 3)))
			Expect(s.Source['d']).To(Equal(int32('d')))
			Expect(s.Source['3']).To(Equal(int32(-3)))
			Expect(s.Loops['3'].Active).To(BeFalse())
		})

		It("should count negative values up", func() {
			load(Program{
				Inst(LoopBegin, 'v'),
				AddInst('c', '1'),
				Inst(LoopEnd, 'v'),
				Inst(Else, 'v'),
				Inst(ElseEnd, 'v'),
				{Op: End},
			})
			s.Source['v'] = -2

			Expect(run()).To(Succeed())
			Expect(s.Source['c']).To(Equal(int32('c' + 2)))
			Expect(s.Source['v']).To(Equal(int32(2)))
		})

		It("should run the else branch for a zero value", func() {
			load(Program{
				Inst(LoopBegin, '0'),
				AddInst('c', '1'),
				Inst(LoopEnd, '0'),
				Inst(Else, '0'),
				AddInst('d', '1'),
				Inst(ElseEnd, '0'),
				{Op: End},
			})

			Expect(run()).To(Succeed())
			Expect(s.Source['c']).To(Equal(int32('c')))
			Expect(s.Source['d']).To(Equal(int32('d' + 1)))
			Expect(s.Source['0']).To(Equal(int32(0)))
		})

		It("should keep the loop variable in the bank it started in", func() {
			load(Program{
				Inst(LoopBegin, 'k'),
				Inst(BankSet, '9'),
				Inst(LoopEnd, 'k'),
				Inst(Else, 'k'),
				Inst(ElseEnd, 'k'),
				{Op: End},
			})
			s.Source['k'] = 2

			Expect(run()).To(Succeed())
			Expect(s.SourceID).To(Equal(int32(9)))
			Expect(bankOf(0)['k']).To(Equal(int32(-2)))
			Expect(bankOf(9)['k']).To(Equal(int32('k')))
		})

		It("should fail when the else is missing", func() {
			load(Program{Inst(LoopBegin, '0'), {Op: End}})

			Expect(run()).To(MatchError(ErrMissingTerminator))
		})

		It("should fail when the else end is missing", func() {
			load(Program{Inst(LoopBegin, '1'), Inst(LoopEnd, '1'), {Op: End}})

			Expect(run()).To(MatchError(ErrMissingTerminator))
		})

		It("should jump back to the loop start when the loop is not active", func() {
			load(Program{
				Inst(LoopBegin, '0'),
				Inst(Else, '0'),
				Inst(LoopEnd, '0'),
				Inst(ElseEnd, '0'),
				{Op: End},
			})
			s.IP = 2

			Expect(ie.RunInst(&s)).To(Succeed())
			Expect(s.IP).To(Equal(0))
		})

		It("should fail on a loop end without loop start", func() {
			load(Program{Inst(LoopEnd, 'z'), {Op: End}})

			Expect(run()).To(MatchError(ErrMissingTerminator))
		})
	})

	Context("when running optimized instructions", func() {
		It("should negate with Invert", func() {
			load(Program{Inst(Invert, '1'), {Op: End}})

			Expect(run()).To(Succeed())
			Expect(s.Source['1']).To(Equal(int32(-1)))
		})

		It("should negate and skip the else branch with IfNot on nonzero", func() {
			load(Program{
				Inst(IfNot, '5'),
				AddInst('c', '1'),
				Inst(ElseEnd, '5'),
				{Op: End},
			})

			Expect(run()).To(Succeed())
			Expect(s.Source['5']).To(Equal(int32(-5)))
			Expect(s.Source['c']).To(Equal(int32('c')))
		})

		It("should run the else branch with IfNot on zero", func() {
			load(Program{
				Inst(IfNot, '0'),
				AddInst('c', '1'),
				Inst(ElseEnd, '0'),
				{Op: End},
			})

			Expect(run()).To(Succeed())
			Expect(s.Source['c']).To(Equal(int32('c' + 1)))
		})
	})

	Context("when doing I/O", func() {
		It("should store a character", func() {
			con.EXPECT().ReadChar().Return(byte('Q'), nil)
			load(Program{Inst(InputChar, 'x'), {Op: End}})

			Expect(run()).To(Succeed())
			Expect(s.Source['x']).To(Equal(int32('Q')))
		})

		It("should store a number", func() {
			con.EXPECT().ReadNumber(true).Return(int32(-4), nil)
			load(Program{Inst(InputNumber, '5'), {Op: End}})

			Expect(run()).To(Succeed())
			Expect(s.Source['5']).To(Equal(int32(-4)))
		})

		It("should store 0 at the end of input", func() {
			con.EXPECT().ReadChar().Return(byte(0), io.EOF)
			con.EXPECT().ReadNumber(true).Return(int32(0), io.EOF)
			load(Program{Inst(InputChar, 'x'), Inst(InputNumber, 'y'), {Op: End}})

			Expect(run()).To(Succeed())
			Expect(s.Source['x']).To(Equal(int32(0)))
			Expect(s.Source['y']).To(Equal(int32(0)))
		})

		It("should fail on invalid numbers when they are not required", func() {
			ie.requireNumber = false
			con.EXPECT().ReadNumber(false).Return(int32(0), console.ErrInvalidNumericInput)
			load(Program{Inst(InputNumber, '5'), {Op: End}})

			Expect(run()).To(MatchError(console.ErrInvalidNumericInput))
		})

		It("should write characters and numbers", func() {
			gomock.InOrder(
				con.EXPECT().WriteChar(int32('a')).Return(nil),
				con.EXPECT().WriteNumber(int32(7)).Return(nil),
			)
			load(Program{Inst(OutputChar, 'a'), Inst(OutputNumber, '7'), {Op: End}})

			Expect(run()).To(Succeed())
		})
	})

	It("should fail when the program does not end", func() {
		load(Program{AddInst('a', 'b')})

		Expect(run()).To(MatchError(ErrMissingTerminator))
	})
})
