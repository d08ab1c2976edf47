package diag

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/hexaengine/hxslc/pkg/source"
)

// MaxLogMessageLength bounds how much of a formatted message is retained,
// mirroring original_source's MAX_LOG_LENGTH.
const MaxLogMessageLength = 1024

// errorThreshold is the number of error-level diagnostics after which
// further errors escalate to critical and abort the pipeline.
const errorThreshold = 100

// Diagnostic is a single reported message, resolved against a locale and
// bound to a span of source text.
type Diagnostic struct {
	Code Code
	Span source.Span
	Text string
}

// Error implements the error interface so a Diagnostic can be returned/wrapped
// through ordinary Go error-handling paths.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("[%s] %s (Line: %d, Column: %d)", levelName(d.Code.Severity()), d.Text, d.Span.Line, d.Span.Column)
}

func levelName(s Severity) string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "Critical"
	}
}

type suppressionRange struct {
	code       Code
	start, end int
}

// Logger accumulates diagnostics for a single compilation, honoring
// suppression ranges opened by `#pragma warning disable` and escalating to
// critical once too many errors have accumulated.
type Logger struct {
	locale    Locale
	messages  []Diagnostic
	errors    uint
	critical  bool
	suppress  []suppressionRange
	openRange map[Code]int // code -> index of currently-open suppression range, or not present
}

// NewLogger constructs a logger using the given locale for message lookup.
func NewLogger(locale Locale) *Logger {
	return &Logger{locale: locale, openRange: make(map[Code]int)}
}

// Messages returns every diagnostic retained after suppression filtering.
func (l *Logger) Messages() []Diagnostic {
	return l.messages
}

// ErrorCount returns the number of error-or-worse diagnostics logged.
func (l *Logger) ErrorCount() uint {
	return l.errors
}

// Critical reports whether a critical diagnostic has aborted the pipeline.
func (l *Logger) Critical() bool {
	return l.critical
}

// DisableWarning opens a suppression range for the given code starting at the
// current output position.
func (l *Logger) DisableWarning(code Code, at int) {
	l.suppress = append(l.suppress, suppressionRange{code, at, -1})
	l.openRange[code] = len(l.suppress) - 1
}

// RestoreWarning closes the most recently opened suppression range for code.
func (l *Logger) RestoreWarning(code Code, at int) {
	if idx, ok := l.openRange[code]; ok {
		l.suppress[idx].end = at
		delete(l.openRange, code)
	}
}

func (l *Logger) suppressed(code Code, offset int) bool {
	for _, r := range l.suppress {
		if r.code != code {
			continue
		}

		end := r.end
		if end < 0 {
			end = offset + 1 // still open: suppresses everything from here on
		}

		if offset >= r.start && offset < end {
			return true
		}
	}

	return false
}

// Log records a diagnostic at the given span, formatting its message from the
// active locale with positional {}-placeholders.
// Returns false if the pipeline must abort (a critical error was hit).
func (l *Logger) Log(code Code, span source.Span, args ...any) bool {
	if l.suppressed(code, span.Offset) {
		return !l.critical
	}

	text := format(l.locale.Message(code), args...)
	if len(text) > MaxLogMessageLength {
		text = text[:MaxLogMessageLength]
	}

	l.messages = append(l.messages, Diagnostic{code, span, text})

	switch code.Severity() {
	case SeverityError:
		l.errors++
		log.WithField("code", code.MessageID()).Error(text)

		if l.errors > errorThreshold {
			l.critical = true
		}
	case SeverityCritical:
		l.critical = true
		log.WithField("code", code.MessageID()).Error(text)
	case SeverityWarning:
		log.WithField("code", code.MessageID()).Warn(text)
	default:
		log.WithField("code", code.MessageID()).Info(text)
	}

	return !l.critical
}

// format substitutes {}-style positional placeholders, left to right.
func format(msg string, args ...any) string {
	out := make([]byte, 0, len(msg))
	ai := 0

	for i := 0; i < len(msg); i++ {
		if i+1 < len(msg) && msg[i] == '{' && msg[i+1] == '}' {
			if ai < len(args) {
				out = append(out, fmt.Sprint(args[ai])...)
				ai++
			}

			i++

			continue
		}

		out = append(out, msg[i])
	}

	return string(out)
}
