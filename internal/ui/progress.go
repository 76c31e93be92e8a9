package ui

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// Progress tracks completed pipeline stages. A disabled Progress is a no-op,
// which is what non-terminal output and tests get.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a stage bar with total steps on w.
func NewProgress(w io.Writer, total int, enabled bool) *Progress {
	if !enabled || total <= 0 {
		return &Progress{}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Starting"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(65*1000000), // 65ms
		progressbar.OptionSetPredictTime(false),
	)
	return &Progress{bar: bar}
}

// Enabled reports whether a bar is rendered.
func (p *Progress) Enabled() bool {
	return p.bar != nil
}

// Start labels the stage currently running.
func (p *Progress) Start(index int, name string) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("[%d] %s", index+1, name))
}

// Done marks one stage complete.
func (p *Progress) Done() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

// Clear erases the bar from the current line.
func (p *Progress) Clear() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Clear()
}

// Finish completes and removes the bar.
func (p *Progress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
