package api

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/asciiascii/console"
	"github.com/sarchlab/asciiascii/core"
	"github.com/sarchlab/asciiascii/lexer"
	"github.com/sarchlab/asciiascii/program"
)

var _ = Describe("Driver", func() {
	var out *bytes.Buffer

	newDriver := func(input string, b DriverBuilder) Driver {
		out = new(bytes.Buffer)

		return b.
			WithEngine(sim.NewSerialEngine()).
			WithFreq(1 * sim.GHz).
			WithConsole(console.NewStream(strings.NewReader(input), out)).
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
			Build("Interpreter")
	}

	run := func(src, input string, b DriverBuilder) (Driver, error) {
		d := newDriver(input, b)
		if err := d.Load([]byte(src)); err != nil {
			return d, err
		}

		return d, d.Run()
	}

	cell := func(d Driver, id int32, v byte) int32 {
		b, ok := d.Banks().Lookup(id)
		Expect(ok).To(BeTrue())
		return b[v]
	}

	It("should reject an unclosed bracket", func() {
		_, err := run("11", "", NewDriverBuilder())
		Expect(err).To(MatchError(lexer.ErrUnmatchedBracket))
	})

	It("should invert a variable with an empty bracket", func() {
		d, err := run("111111", "", NewDriverBuilder())
		Expect(err).NotTo(HaveOccurred())

		Expect(d.Program()).To(Equal(program.Program{
			program.Inst(program.Invert, '1'),
			{Op: program.End},
		}))
		Expect(d.Original()).To(HaveLen(5))
		Expect(cell(d, 0, '1')).To(Equal(int32(-1)))
		Expect(out.String()).To(BeEmpty())
	})

	It("should print a digit variable as a number", func() {
		_, err := run("1`", "", NewDriverBuilder())
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("1"))
	})

	It("should print other variables as characters", func() {
		_, err := run("a`", "", NewDriverBuilder())
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("a"))
	})

	It("should add the default values", func() {
		d, err := run("2a", "", NewDriverBuilder())
		Expect(err).NotTo(HaveOccurred())
		Expect(cell(d, 0, '2')).To(Equal(int32(99)))
	})

	It("should print hello world", func() {
		_, err := run("H`e`l`l`o`,` `W`o`r`l`d`!`a0a9a1a`", "", NewDriverBuilder())
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("Hello, World!\n"))
	})

	Context("with the truth machine", func() {
		const truthMachine = "`222211`220`22"

		It("should print 0 once for input 0", func() {
			_, err := run(truthMachine, "0\n", NewDriverBuilder())
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("0"))
		})

		It("should print 1 forever for input 1", func() {
			_, err := run(truthMachine, "1\n", NewDriverBuilder().WithStepLimit(100))
			Expect(err).To(MatchError(core.ErrStepLimit))
			Expect(out.String()).To(HavePrefix("1111111111"))
			Expect(out.String()).NotTo(ContainSubstring("0"))
		})
	})

	DescribeTable("should give the same result with and without the optimizer",
		func(src, input string) {
			plain, err := run(src, input, NewDriverBuilder().WithOptimize(false))
			Expect(err).NotTo(HaveOccurred())
			plainOut := out.String()

			optimized, err := run(src, input, NewDriverBuilder())
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal(plainOut))

			Expect(optimized.Banks().IDs()).To(Equal(plain.Banks().IDs()))
			for _, id := range plain.Banks().IDs() {
				Expect(cell(optimized, id, 'x')).To(Equal(cell(plain, id, 'x')))
				Expect(cell(optimized, id, '3')).To(Equal(cell(plain, id, '3')))
				Expect(cell(optimized, id, '0')).To(Equal(cell(plain, id, '0')))
			}
		},
		Entry("loop with a body", "`333*`33333`", "2\n"),
		Entry("if-not on a nonzero value", "3333x`33", ""),
		Entry("if-not on zero", "0000x`00", ""),
		Entry("invert", "333333x3x`", ""),
		Entry("bank both", "3x````````x`", ""),
	)

	It("should run a saved image", func() {
		d := newDriver("", NewDriverBuilder())
		Expect(d.Load([]byte("`333*`33333`"))).To(Succeed())

		img, err := d.Image()
		Expect(err).NotTo(HaveOccurred())

		loaded := newDriver("3\n", NewDriverBuilder())
		Expect(loaded.Load(img)).To(Succeed())
		Expect(loaded.Program()).To(Equal(d.Program()))
		Expect(loaded.Run()).To(Succeed())
		Expect(out.String()).To(Equal("***-3"))
	})

	It("should optimize an unoptimized image", func() {
		d := newDriver("", NewDriverBuilder().WithOptimize(false))
		Expect(d.Load([]byte("111111"))).To(Succeed())

		img, err := d.Image()
		Expect(err).NotTo(HaveOccurred())

		loaded := newDriver("", NewDriverBuilder())
		Expect(loaded.Load(img)).To(Succeed())
		Expect(loaded.Program()).To(HaveLen(2))
	})

	It("should fail to run without a program", func() {
		d := newDriver("", NewDriverBuilder())
		Expect(d.Run()).To(MatchError(ErrNoProgram))

		_, err := d.Image()
		Expect(err).To(MatchError(ErrNoProgram))
	})

	It("should dump the state after a run", func() {
		d, err := run("x0", "", NewDriverBuilder())
		Expect(err).NotTo(HaveOccurred())

		dump := new(bytes.Buffer)
		d.PrintState(dump)
		Expect(dump.String()).To(ContainSubstring("'x'=0"))
	})
})
