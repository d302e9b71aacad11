// Package logging sets up the module's structured logger and the
// per-descriptor adapter that demotes ignorable issues to debug logs,
// mirroring the original tool's IgnoreLoggerAdapter.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/jibrel-network/chain-assets-validator/internal/issue"
)

// New builds a console-rendered zerolog.Logger at the given level
// ("debug", "info", "warn", "error"; unknown values fall back to info).
func New(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// TokenLogger scopes a logger to one descriptor and applies its ignore
// classifier to every ignorable issue before it's surfaced.
type TokenLogger struct {
	logger     zerolog.Logger
	classifier *issue.Classifier
	symbol     string
}

// NewTokenLogger builds a TokenLogger for symbol, sourcing its ignore
// decisions from classifier (may be nil, meaning nothing is suppressed).
func NewTokenLogger(logger zerolog.Logger, classifier *issue.Classifier, symbol string) *TokenLogger {
	return &TokenLogger{
		logger:     logger.With().Str("symbol", symbol).Logger(),
		classifier: classifier,
		symbol:     symbol,
	}
}

// Report applies the ignore classifier to i. If suppressed, it is logged
// at debug level and ok is false; otherwise it is returned unchanged for
// the caller to surface.
func (t *TokenLogger) Report(i issue.Issue) (out issue.Issue, ok bool) {
	surfaced, ok := t.classifier.Classify(t.symbol, i)
	if !ok {
		t.logger.Debug().Str("field", i.Field).Msg(i.Message)
		return issue.Issue{}, false
	}
	return surfaced, true
}

// ReportAll applies Report to every issue in issues, returning only the
// surfaced ones.
func (t *TokenLogger) ReportAll(issues []issue.Issue) []issue.Issue {
	out := make([]issue.Issue, 0, len(issues))
	for _, i := range issues {
		if surfaced, ok := t.Report(i); ok {
			out = append(out, surfaced)
		}
	}
	return out
}
