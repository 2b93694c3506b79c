// Package console implements the character and number I/O used by the core.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrInvalidNumericInput is returned when a line is not a signed decimal
// 32-bit integer.
var ErrInvalidNumericInput = errors.New("invalid numeric input")

// Console is where the core reads input from and writes output to.
type Console interface {
	// ReadChar reads exactly one raw byte.
	ReadChar() (byte, error)

	// ReadNumber reads one line and parses it as a number. If require is
	// set, invalid lines are skipped until a valid one arrives.
	ReadNumber(require bool) (int32, error)

	// WriteChar writes the low byte of v.
	WriteChar(v int32) error

	// WriteNumber writes v in decimal.
	WriteNumber(v int32) error

	// Flush writes out any buffered output.
	Flush() error
}

// Stream is a Console over a reader and a writer.
type Stream struct {
	in    *bufio.Reader
	out   *bufio.Writer
	rawFD int
}

// NewStream creates a console that reads from r and writes to w.
func NewStream(r io.Reader, w io.Writer) *Stream {
	return &Stream{
		in:    bufio.NewReader(r),
		out:   bufio.NewWriter(w),
		rawFD: -1,
	}
}

// NewTerminal creates a console on the standard streams. If stdin is a
// terminal, character reads switch it to raw mode so that a single key press
// is delivered without echo.
func NewTerminal() *Stream {
	s := NewStream(os.Stdin, os.Stdout)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		s.rawFD = fd
	}

	return s
}

// ReadChar reads one byte.
func (s *Stream) ReadChar() (byte, error) {
	if err := s.Flush(); err != nil {
		return 0, err
	}

	if s.rawFD >= 0 && s.in.Buffered() == 0 {
		state, err := term.MakeRaw(s.rawFD)
		if err != nil {
			return 0, fmt.Errorf("console: raw mode: %w", err)
		}
		defer term.Restore(s.rawFD, state)
	}

	return s.in.ReadByte()
}

// ReadLine reads one line without its line ending. A final line without a
// newline is returned as is; io.EOF is only reported when nothing was read.
func (s *Stream) ReadLine() (string, error) {
	if err := s.Flush(); err != nil {
		return "", err
	}

	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}

		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// ReadNumber reads a line and parses it with ParseNumber.
func (s *Stream) ReadNumber(require bool) (int32, error) {
	for {
		line, err := s.ReadLine()
		if err != nil {
			return 0, err
		}

		n, err := ParseNumber(line)
		if err == nil {
			return n, nil
		}

		if !require {
			return 0, err
		}

		slog.Warn("Not a number, waiting for another line", "input", line)
	}
}

// WriteChar writes the low byte of v.
func (s *Stream) WriteChar(v int32) error {
	return s.out.WriteByte(byte(v))
}

// WriteNumber writes v in decimal.
func (s *Stream) WriteNumber(v int32) error {
	_, err := s.out.WriteString(strconv.FormatInt(int64(v), 10))
	return err
}

// Flush writes out buffered output.
func (s *Stream) Flush() error {
	return s.out.Flush()
}

// ParseNumber parses an optional minus sign followed by at least one decimal
// digit. Trailing line endings are ignored.
func ParseNumber(line string) (int32, error) {
	text := strings.TrimRight(line, "\r\n")

	digits := strings.TrimPrefix(text, "-")
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericInput, line)
	}

	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumericInput, line)
		}
	}

	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidNumericInput, line)
	}

	return int32(n), nil
}
