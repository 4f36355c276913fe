// Package diag implements the compiler's diagnostic context: the one piece
// of cross-cutting, ambient state threaded through every pipeline stage
// (spec §5, §7). It distinguishes user-addressable CodeErrors, which are
// accumulated so the compiler can keep going and surface more errors in
// one run, from InternalErrors, which signal a compiler bug and abort the
// pipeline immediately.
package diag

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/avmforge/avmc/internal/srcloc"
)

// Level is a diagnostic's severity, mapped by an embedding language server
// to its own severity enum.
type Level int

const (
	Info Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case Error:
		return logrus.ErrorLevel
	case Warning:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

// Diagnostic is one accumulated message, per the external-interfaces
// protocol in spec §6.
type Diagnostic struct {
	Level    Level
	Message  string
	Location *srcloc.Location
	// Data carries optional structured data (e.g. the two wtype names in
	// an un-encodable-conversion error) for tooling that wants more than
	// the rendered Message.
	Data map[string]any
}

// CodeError is a user-addressable error: invalid type construction,
// out-of-range literals, unsupported operator combinations, malformed
// ARC4 signatures, and similar. It carries a source location and is meant
// to be accumulated into a Context, not propagated by a Go panic/return
// up through the eb/lowering layers.
type CodeError struct {
	Message  string
	Location *srcloc.Location
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location.String(), e.Message)
}

// InternalError signals an invariant violation ("unreachable") that must
// never be produced by well-formed source. It carries a location only as
// a debugging hint and aborts the pipeline.
type InternalError struct {
	Message  string
	Location *srcloc.Location
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error at %s: %s", e.Location.String(), e.Message)
}

// Context is the ambient diagnostic-collection state for one compilation.
// It is append-only; nothing downstream reads it back to branch on except
// at the explicit Gate checkpoints. A fresh Context must be constructed
// per invocation (spec §5: "each invocation constructs a fresh context").
type Context struct {
	log         *logrus.Entry
	diagnostics []Diagnostic
}

// NewContext builds a Context logging through the given logrus logger, or
// logrus.StandardLogger() if log is nil.
func NewContext(log *logrus.Logger) *Context {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Context{log: logrus.NewEntry(log)}
}

func (c *Context) record(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
	entry := c.log
	if d.Location != nil {
		entry = entry.WithFields(logrus.Fields{
			"file":   locFile(d.Location),
			"line":   d.Location.Line,
			"column": d.Location.Column,
		})
	}
	for k, v := range d.Data {
		entry = entry.WithField(k, v)
	}
	entry.Log(d.Level.logrusLevel(), d.Message)
}

func locFile(l *srcloc.Location) string {
	if l.File == nil {
		return "<unknown>"
	}
	return l.File.Path
}

// Error accumulates a CodeError as an error-level diagnostic. The caller
// is expected to have already substituted a dummy value at the error site
// so traversal can continue (spec §7).
func (c *Context) Error(err *CodeError) {
	c.record(Diagnostic{Level: Error, Message: err.Message, Location: err.Location})
}

// Errorf is a convenience wrapper around Error.
func (c *Context) Errorf(loc *srcloc.Location, format string, args ...any) {
	c.Error(&CodeError{Message: fmt.Sprintf(format, args...), Location: loc})
}

// Warnf accumulates a warning-level diagnostic.
func (c *Context) Warnf(loc *srcloc.Location, format string, args ...any) {
	c.record(Diagnostic{Level: Warning, Message: fmt.Sprintf(format, args...), Location: loc})
}

// Infof accumulates an info-level diagnostic.
func (c *Context) Infof(loc *srcloc.Location, format string, args ...any) {
	c.record(Diagnostic{Level: Info, Message: fmt.Sprintf(format, args...), Location: loc})
}

// Internal panics with an *InternalError. Gate recovers this panic at a
// stage boundary and turns it back into a returned error, mirroring the
// teacher's log.Panicf-on-invariant-violation pattern in
// core/opcode_dispatcher.go (an unreachable collision aborts the whole
// process rather than threading an error return through code that must
// never fail in a correct build).
func (c *Context) Internal(loc *srcloc.Location, format string, args ...any) {
	panic(&InternalError{Message: fmt.Sprintf(format, args...), Location: loc})
}

// Diagnostics returns all accumulated diagnostics in source-location
// order within a file, and in the order files were first seen across a
// pipeline run (spec §5: "diagnostic messages are emitted in
// source-location order within a file, and in pipeline order across
// stages").
func (c *Context) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	rank := map[string]int{}
	for _, d := range c.diagnostics {
		if _, ok := rank[fileOf(d.Location)]; !ok {
			rank[fileOf(d.Location)] = len(rank)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank[fileOf(out[i].Location)], rank[fileOf(out[j].Location)]
		if ri != rj {
			return ri < rj
		}
		return locLess(out[i].Location, out[j].Location)
	})
	return out
}

func locLess(a, b *srcloc.Location) bool {
	af, bf := fileOf(a), fileOf(b)
	if af != bf {
		return af < bf
	}
	al, bl := lineOf(a), lineOf(b)
	if al != bl {
		return al < bl
	}
	return columnOf(a) < columnOf(b)
}

func fileOf(l *srcloc.Location) string {
	if l == nil || l.File == nil {
		return ""
	}
	return l.File.Path
}

func lineOf(l *srcloc.Location) int {
	if l == nil {
		return 0
	}
	return l.Line
}

func columnOf(l *srcloc.Location) int {
	if l == nil {
		return 0
	}
	return l.Column
}

// ErrorCount returns the number of error-level diagnostics accumulated so
// far, the value an error-gate checkpoint inspects.
func (c *Context) ErrorCount() int {
	n := 0
	for _, d := range c.diagnostics {
		if d.Level == Error {
			n++
		}
	}
	return n
}

// Gate inspects the context's error count after a major stage. If any
// errors were accumulated, ok is false; the caller decides whether to
// prune the failing module and continue for best-effort diagnostics (LSP
// usage) or abort the pipeline before code generation (batch usage). Gate
// also recovers an *InternalError panic raised via Internal, converting
// it into a returned error so the caller can report a compiler bug
// without crashing the host process.
func (c *Context) Gate(fn func()) (internalErr error, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if ie, isInternal := r.(*InternalError); isInternal {
				internalErr = ie
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil, c.ErrorCount() == 0
}
