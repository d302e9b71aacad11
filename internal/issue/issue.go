// Package issue defines the validation finding type shared by every
// validator in the chain, and the ignore-glob classifier that decides
// whether a finding is surfaced to the caller or demoted to a debug log.
package issue

import "fmt"

// Issue is a single validation finding against one asset descriptor.
//
// Fatal issues (Ignorable == false) must always be surfaced, regardless of
// any ignore list; ignorable issues are demoted to debug logs when their
// Field matches a configured glob (see Classifier).
type Issue struct {
	Field     string
	Message   string
	Ignorable bool
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// Fatal builds an issue that is never subject to ignore-list suppression.
func Fatal(field, format string, args ...any) Issue {
	return Issue{Field: field, Message: fmt.Sprintf(format, args...), Ignorable: false}
}

// Ignorable builds an issue that Classifier may demote to a debug log.
func Ignorable(field, format string, args ...any) Issue {
	return Issue{Field: field, Message: fmt.Sprintf(format, args...), Ignorable: true}
}

// Classifier decides whether an ignorable issue on a given method/field,
// for a given symbol, should be suppressed.
//
// Matches against four glob variants, in this order, same as
// IgnoreLoggerAdapter._method_ignored in the original Python tool:
//
//	method, SYMBOL.method, SYMBOL.*, *.method
//
// Any one hit is enough to suppress.
type Classifier struct {
	ignore map[string]struct{}
}

// NewClassifier builds a classifier from the union of two ignore lists
// (typically the CLI --ignore flag and a per-entry schema ignore list —
// the original tool unions `self.ignore` with `value.get('ignore', set())`
// at validation time; callers here should pass the already-unioned set).
func NewClassifier(entries []string) *Classifier {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e] = struct{}{}
	}
	return &Classifier{ignore: set}
}

// Suppressed reports whether an issue on field, for symbol, should be
// demoted to a debug log rather than surfaced.
func (c *Classifier) Suppressed(symbol, field string) bool {
	if c == nil {
		return false
	}
	variants := [4]string{
		field,
		symbol + "." + field,
		symbol + ".*",
		"*." + field,
	}
	for _, v := range variants {
		if _, ok := c.ignore[v]; ok {
			return true
		}
	}
	return false
}

// Classify turns an Issue into either a surfaced Issue (returned, ok=true)
// or a suppressed one (ok=false; caller should log it at debug level).
// Fatal issues are never suppressed.
func (c *Classifier) Classify(symbol string, i Issue) (Issue, bool) {
	if !i.Ignorable {
		return i, true
	}
	if c.Suppressed(symbol, i.Field) {
		return Issue{}, false
	}
	return i, true
}
