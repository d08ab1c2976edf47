package source

// Mapping records that a range of bytes in preprocessed output corresponds to
// a span of the original source text, offset by a fixed number of lines and
// with the column reset. This lets diagnostics raised against lexer/parser
// positions (which see only the preprocessor's cleaned stream) be reported
// against the position the user actually wrote.
type Mapping struct {
	// OutputStart/OutputEnd is the byte range in the cleaned output stream.
	OutputStart, OutputEnd int
	// Original is the span in the original source this output range expands
	// from.
	Original Span
	// LineDelta is added to a line computed from OutputStart's containing line
	// to recover the original line number (typically -1 for a macro expansion
	// that removed one line from the stream).
	LineDelta int
}

// TextMap is an ordered sequence of mappings produced by the preprocessor for
// a single source file. Mappings are appended in output-position order.
type TextMap struct {
	file     ID
	mappings []Mapping
}

// NewTextMap constructs an empty text map for the given file.
func NewTextMap(file ID) *TextMap {
	return &TextMap{file: file}
}

// Record appends a new mapping. Callers append in increasing OutputStart
// order, matching how the preprocessor emits its output left to right.
func (t *TextMap) Record(m Mapping) {
	t.mappings = append(t.mappings, m)
}

// Len reports how many mappings are recorded.
func (t *TextMap) Len() int {
	return len(t.mappings)
}

// Resolve finds the mapping, if any, covering a given offset in the cleaned
// output stream and translates it back to a span in the original text.
func (t *TextMap) Resolve(outputOffset int) (Span, bool) {
	for _, m := range t.mappings {
		if outputOffset >= m.OutputStart && outputOffset < m.OutputEnd {
			return m.Original, true
		}
	}

	return Span{}, false
}

// IsEmpty reports whether no mappings were ever recorded, which is the
// expected state for macro-free input.
func (t *TextMap) IsEmpty() bool {
	return len(t.mappings) == 0
}
