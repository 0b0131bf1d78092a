package checker

import (
	"context"

	"github.com/khanhnv2901/relay-diag/internal/console"
	"github.com/khanhnv2901/relay-diag/internal/probe"
	"go.uber.org/zap"
)

// Prober issues a single bounded HEAD request.
type Prober interface {
	Head(ctx context.Context, rawURL string) probe.Result
}

// base carries the collaborators shared by every checker.
type base struct {
	Prober  Prober
	Printer console.Printer
	Logger  *zap.SugaredLogger
}

func (b base) printer() console.Printer {
	if b.Printer == nil {
		return console.Discard()
	}
	return b.Printer
}

func (b base) debugw(msg string, keysAndValues ...interface{}) {
	if b.Logger == nil {
		return
	}
	b.Logger.Debugw(msg, keysAndValues...)
}
