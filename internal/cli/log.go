// Package cli implements the pomtree command-line interface.
//
// This package provides commands for resolving Maven POMs into effective
// models, printing and rendering the resulting dependency trees, serving
// the resolver over HTTP, and managing the POM response cache. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
//   - resolve: resolve a pom.xml file or a groupId:artifactId:version coordinate
//   - tree:    print the resolved dependency tree (optionally interactive)
//   - render:  render the dependency graph as DOT, SVG, or PNG
//   - serve:   expose the resolver as an HTTP API
//   - cache:   manage the POM response cache
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, so the resolver's debug traces and the
// command's progress lines share one sink.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the command logger: timestamped, written to w,
// filtering below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one resolution and reports it with the elapsed duration,
// e.g. "Resolved org.example:app:1.0 (312ms)". Single-goroutine use only.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is a private context-key type so the logger entry cannot collide
// with other packages' context values.
type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the command logger, falling back to
// log.Default() so helpers never receive a nil logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
