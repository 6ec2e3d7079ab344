package progress

import (
	"github.com/kochabx/requex/log"
)

// Indicator is the global loading affordance (spinner, overlay, status line)
type Indicator interface {
	Show()
	Hide()
}

// Funcs adapts a pair of functions to Indicator. Nil functions are skipped.
type Funcs struct {
	OnShow func()
	OnHide func()
}

func (f Funcs) Show() {
	if f.OnShow != nil {
		f.OnShow()
	}
}

func (f Funcs) Hide() {
	if f.OnHide != nil {
		f.OnHide()
	}
}

// Nop ignores transitions
type Nop struct{}

func (Nop) Show() {}
func (Nop) Hide() {}

// LogIndicator reports transitions at debug level
type LogIndicator struct {
	logger *log.Logger
}

// NewLogIndicator creates a LogIndicator; a nil logger uses the global one
func NewLogIndicator(logger *log.Logger) *LogIndicator {
	return &LogIndicator{logger: logger}
}

func (l *LogIndicator) log() *log.Logger {
	if l.logger != nil {
		return l.logger
	}
	return log.G()
}

func (l *LogIndicator) Show() {
	l.log().Debug().Msg("loading started")
}

func (l *LogIndicator) Hide() {
	l.log().Debug().Msg("loading finished")
}
