package lexer_test

import (
	"bytes"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/asciiascii/lexer"
	. "github.com/sarchlab/asciiascii/program"
)

var end = Instruction{Op: End}

var _ = Describe("Lexer", func() {
	var (
		logs *bytes.Buffer
		l    *lexer.Lexer
	)

	BeforeEach(func() {
		logs = new(bytes.Buffer)
		l = lexer.New(slog.New(slog.NewTextHandler(logs, nil)))
	})

	Context("with I/O pairs", func() {
		It("should emit number output for a digit", func() {
			code, err := l.Lex([]byte("1`"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(Program{Inst(OutputNumber, '1'), end}))
		})

		It("should emit char output for other bytes", func() {
			code, err := l.Lex([]byte("a`"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(Program{Inst(OutputChar, 'a'), end}))
		})

		It("should emit number and char input", func() {
			code, err := l.Lex([]byte("`5`x"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(Program{
				Inst(InputNumber, '5'),
				Inst(InputChar, 'x'),
				end,
			}))
		})
	})

	Context("with add pairs", func() {
		It("should emit Add with both bytes", func() {
			code, err := l.Lex([]byte("2a"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(Program{AddInst('2', 'a'), end}))
		})
	})

	Context("with memory pairs", func() {
		It("should use the last referenced variable", func() {
			code, err := l.Lex([]byte("xy``"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(Program{AddInst('x', 'y'), Inst(BankSet, 'x'), end}))
		})

		It("should use variable 0 before anything was referenced", func() {
			code, err := l.Lex([]byte("``"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(Program{Inst(BankSet, 0), end}))
		})

		It("should alternate between set and swap", func() {
			code, err := l.Lex([]byte("`k``````"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(Program{
				Inst(InputChar, 'k'),
				Inst(BankSet, 'k'),
				{Op: BankSwap},
				Inst(BankSet, 'k'),
				end,
			}))
		})

		It("should not change the last referenced variable", func() {
			code, err := l.Lex([]byte("b```"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code[1]).To(Equal(Inst(BankSet, 'b')))
		})
	})

	Context("with bracket pairs", func() {
		It("should open a loop", func() {
			_, err := l.Lex([]byte("11"))
			Expect(err).To(MatchError(lexer.ErrUnmatchedBracket))
			Expect(err.Error()).To(ContainSubstring("'1'"))
		})

		It("should read the closing pair twice", func() {
			code, err := l.Lex([]byte("111111"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(Program{
				Inst(LoopBegin, '1'),
				Inst(LoopEnd, '1'),
				Inst(Else, '1'),
				Inst(ElseEnd, '1'),
				end,
			}))
		})

		It("should wrap the counter after else end", func() {
			_, err := l.Lex([]byte("11111111"))
			Expect(err).To(MatchError(lexer.ErrUnmatchedBracket))

			code, err := l.Lex([]byte("111111111111"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code.Count(LoopBegin)).To(Equal(2))
			Expect(code.Count(ElseEnd)).To(Equal(2))
		})

		It("should keep counters per byte", func() {
			code, err := l.Lex([]byte("aabbaa1`bbaabb"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(Program{
				Inst(LoopBegin, 'a'),
				Inst(LoopBegin, 'b'),
				Inst(LoopEnd, 'a'),
				Inst(Else, 'a'),
				Inst(OutputNumber, '1'),
				Inst(LoopEnd, 'b'),
				Inst(Else, 'b'),
				Inst(ElseEnd, 'a'),
				Inst(ElseEnd, 'b'),
				end,
			}))
		})

		It("should set the last referenced variable", func() {
			code, err := l.Lex([]byte("zz````zzzz"))
			Expect(err).NotTo(HaveOccurred())
			Expect(code[1]).To(Equal(Inst(BankSet, 'z')))
		})
	})

	It("should ignore a trailing odd byte with a note", func() {
		code, err := l.Lex([]byte("a`b"))
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(Program{Inst(OutputChar, 'a'), end}))
		Expect(logs.String()).To(ContainSubstring("ignoring the last one"))
	})

	It("should lex empty source to End", func() {
		code, err := lexer.Lex(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(Program{end}))
	})
})
