package progressbar

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	progressbar "github.com/schollz/progressbar/v3"
)

const refreshRate = time.Millisecond * 120

// ProgressBar wraps the terminal spinner and becomes a no-op when stderr is
// not a tty, so piped output stays clean.
type ProgressBar struct {
	spinner *progressbar.ProgressBar
	done    chan struct{}
	writer  io.Writer
}

func NewProgressBar() *ProgressBar {
	writer := io.Discard
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		writer = os.Stderr
	}
	return NewProgressBarWithWriter(writer)
}

func NewProgressBarWithWriter(w io.Writer) *ProgressBar {
	return &ProgressBar{writer: w}
}

// Start renders an indeterminate spinner with the given label until Stop is
// called.
func (p *ProgressBar) Start(label string) {
	p.Stop()
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionSpinnerType(11),
		progressbar.OptionThrottle(refreshRate),
	)
	p.spinner = bar
	p.done = make(chan struct{})
	go func(bar *progressbar.ProgressBar, done chan struct{}) {
		for {
			select {
			case <-done:
				return
			case <-time.After(refreshRate):
				bar.Add(1) //nolint:errcheck
			}
		}
	}(bar, p.done)
}

// Stop clears the spinner, safe to call repeatedly.
func (p *ProgressBar) Stop() {
	if p.spinner == nil {
		return
	}
	close(p.done)
	p.spinner.Clear() //nolint:errcheck
	p.spinner = nil
	p.done = nil
}
