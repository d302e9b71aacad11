package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jibrel-network/chain-assets-validator/internal/issue"
)

func TestReportSuppressesIgnoredField(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", &buf)
	classifier := issue.NewClassifier([]string{"decimals"})
	tl := NewTokenLogger(logger, classifier, "JNT")

	_, ok := tl.Report(issue.Ignorable("decimals", "boom"))
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "boom")
}

func TestReportSurfacesUnignoredField(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", &buf)
	classifier := issue.NewClassifier(nil)
	tl := NewTokenLogger(logger, classifier, "JNT")

	out, ok := tl.Report(issue.Ignorable("symbol", "mismatch"))
	assert.True(t, ok)
	assert.Equal(t, "symbol", out.Field)
}

func TestReportNeverSuppressesFatal(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", &buf)
	classifier := issue.NewClassifier([]string{"decimals"})
	tl := NewTokenLogger(logger, classifier, "JNT")

	out, ok := tl.Report(issue.Fatal("decimals", "mismatch"))
	assert.True(t, ok)
	assert.Equal(t, "decimals", out.Field)
}

func TestReportAllFiltersSuppressed(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", &buf)
	classifier := issue.NewClassifier([]string{"name"})
	tl := NewTokenLogger(logger, classifier, "JNT")

	surfaced := tl.ReportAll([]issue.Issue{
		issue.Ignorable("name", "suppressed"),
		issue.Fatal("decimals", "fatal"),
	})
	assert.Len(t, surfaced, 1)
	assert.Equal(t, "decimals", surfaced[0].Field)
}
