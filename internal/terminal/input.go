package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	// DefaultWidth is used when the terminal size cannot be determined
	DefaultWidth = 80
	// MinWidth is the narrowest width rendering will wrap to
	MinWidth = 40
)

// Reader reads prompts from the user. One Reader must be shared for the
// lifetime of stdin so buffered input is not lost between prompts.
type Reader struct {
	in  *bufio.Reader
	fd  int
	tty bool
}

// NewReader wraps in. Password input is hidden only when in is a terminal.
func NewReader(in io.Reader) *Reader {
	r := &Reader{in: bufio.NewReader(in), fd: -1}
	if f, ok := in.(*os.File); ok {
		r.fd = int(f.Fd())
		r.tty = term.IsTerminal(r.fd)
	}
	return r
}

// ReadLine reads a line of input from the user
func (r *Reader) ReadLine() (string, error) {
	input, err := r.in.ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", err
	}

	// Trim whitespace and newline
	return strings.TrimSpace(input), nil
}

// ReadPassword reads a secret without echoing it when attached to a
// terminal. out receives the trailing newline the hidden input swallows.
func (r *Reader) ReadPassword(out io.Writer) (string, error) {
	if !r.tty {
		return r.ReadLine()
	}

	password, err := term.ReadPassword(r.fd)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(out)
	return string(password), nil
}

// IsTerminal checks if stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Width returns the current stdout width, clamped to MinWidth and falling
// back to DefaultWidth.
func Width() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	if width < MinWidth {
		return MinWidth
	}
	return width
}
