package terminal

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Display handles terminal status output with colors and the spinner
type Display struct {
	out   io.Writer
	color bool

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// NewDisplay creates a display writing to out. Colors are emitted only when
// color is set.
func NewDisplay(out io.Writer, color bool) *Display {
	return &Display{out: out, color: color}
}

// Color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

func (d *Display) paint(color, s string) string {
	if !d.color {
		return s
	}
	return color + s + colorReset
}

// PrintError displays an error message
func (d *Display) PrintError(err error) {
	fmt.Fprintln(d.out, d.paint(colorRed, fmt.Sprintf("✗ Lỗi: %v", err)))
}

// PrintInfo displays an info message
func (d *Display) PrintInfo(msg string) {
	fmt.Fprintln(d.out, d.paint(colorCyan, "ℹ "+msg))
}

// PrintWarning displays a warning message
func (d *Display) PrintWarning(msg string) {
	fmt.Fprintln(d.out, d.paint(colorYellow, "⚠ "+msg))
}

// PrintSuccess displays a success message
func (d *Display) PrintSuccess(msg string) {
	fmt.Fprintln(d.out, d.paint(colorGreen, "✓ "+msg))
}

// PrintMuted displays secondary text
func (d *Display) PrintMuted(msg string) {
	fmt.Fprintln(d.out, d.paint(colorGray, msg))
}

// PrintPrompt displays an input prompt without a newline
func (d *Display) PrintPrompt(label string) {
	fmt.Fprint(d.out, d.paint(colorGreen, label))
}

// ShowSpinner displays a spinner with a message until StopSpinner. A second
// call replaces the running spinner.
func (d *Display) ShowSpinner(msg string) {
	d.StopSpinner()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stop = make(chan struct{})
	d.stopped = make(chan struct{})

	if !d.color {
		// no cursor control, print once
		fmt.Fprintln(d.out, msg)
		close(d.stopped)
		return
	}

	go func(stop, stopped chan struct{}) {
		defer close(stopped)
		spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i = (i + 1) % len(spinnerChars) {
			fmt.Fprintf(d.out, "\r%s%s %s%s", colorCyan, spinnerChars[i], msg, colorReset)
			select {
			case <-stop:
				// Clear the spinner line
				fmt.Fprint(d.out, "\r\033[2K\r")
				return
			case <-ticker.C:
			}
		}
	}(d.stop, d.stopped)
}

// StopSpinner stops the currently active spinner and waits for its line to
// be cleared.
func (d *Display) StopSpinner() {
	d.mu.Lock()
	stop, stopped := d.stop, d.stopped
	d.stop, d.stopped = nil, nil
	d.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-stopped
}

// Cleanup ensures the display is in a good state before exit
func (d *Display) Cleanup() {
	d.StopSpinner()
}
