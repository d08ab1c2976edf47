// Package source owns source files by numeric id and hands out byte-range
// spans that later stages (lexer, parser, diagnostics) use to report
// positions back to the user.
package source

import (
	"fmt"
)

// ID uniquely identifies a source file within a Manager.
type ID uint32

// Location is a single point within a source file: a file id plus a byte
// offset into that file's contents.
type Location struct {
	File   ID
	Offset int
}

// String renders a location as "file#N:offset".
func (l Location) String() string {
	return fmt.Sprintf("file#%d:%d", l.File, l.Offset)
}

// Span is a contiguous byte range within a single source file, annotated with
// the line/column of its first byte. Line and column are not derived on
// demand: the lexer maintains them as it scans.
type Span struct {
	File   ID
	Offset int
	Length int
	Line   int
	Column int
}

// NewSpan constructs a span, panicking if the length is negative.
func NewSpan(file ID, offset, length, line, column int) Span {
	if length < 0 {
		panic("invalid span: negative length")
	}

	return Span{file, offset, length, line, column}
}

// End returns the offset one past the last byte of this span.
func (s Span) End() int {
	return s.Offset + s.Length
}

// Location returns the starting location of this span.
func (s Span) Location() Location {
	return Location{s.File, s.Offset}
}

// Merge returns the smallest span enclosing both s and other. Both spans must
// belong to the same file.
func (s Span) Merge(other Span) Span {
	if s.Length == 0 {
		return other
	} else if other.Length == 0 {
		return s
	}

	if s.File != other.File {
		panic("cannot merge spans from different files")
	}

	start := min(s.Offset, other.Offset)
	end := max(s.End(), other.End())
	// Keep the line/column of whichever span starts first.
	if s.Offset <= other.Offset {
		return NewSpan(s.File, start, end-start, s.Line, s.Column)
	}

	return NewSpan(s.File, start, end-start, other.Line, other.Column)
}

// File represents a single source file owned by a Manager.
type File struct {
	id       ID
	filename string
	contents []byte
}

// ID returns the numeric identifier of this file within its manager.
func (f *File) ID() ID { return f.id }

// Filename returns the name this file was registered under.
func (f *File) Filename() string { return f.filename }

// Contents returns the byte buffer backing this file. The preprocessor
// rewrites this buffer in place (via Manager.SetContents) to the cleaned
// stream that the lexer subsequently consumes.
func (f *File) Contents() []byte { return f.contents }

// Line identifies the physical line enclosing a given offset.
type Line struct {
	Number int
	Start  int
	End    int
}

// FindLine returns the 1-indexed physical line containing the given byte
// offset. If offset is beyond the end of the file, the last line is returned.
func (f *File) FindLine(offset int) Line {
	number, start := 1, 0

	for i := 0; i < len(f.contents); i++ {
		if i == offset {
			return Line{number, start, endOfLine(f.contents, i)}
		} else if f.contents[i] == '\n' {
			number++
			start = i + 1
		}
	}

	return Line{number, start, len(f.contents)}
}

func endOfLine(contents []byte, index int) int {
	for i := index; i < len(contents); i++ {
		if contents[i] == '\n' {
			return i
		}
	}

	return len(contents)
}

// Manager owns every source file participating in a compilation, indexed by
// numeric id. Source files outlive the compilation unit that reads them.
type Manager struct {
	files []*File
}

// NewManager constructs an empty source manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add registers a new source file and returns its id.
func (m *Manager) Add(filename string, contents []byte) ID {
	id := ID(len(m.files))
	m.files = append(m.files, &File{id, filename, contents})

	return id
}

// Get returns the file registered under the given id.
func (m *Manager) Get(id ID) *File {
	return m.files[id]
}

// SetContents replaces a file's buffer. Used by the preprocessor to attach
// its cleaned output back onto the originating source file.
func (m *Manager) SetContents(id ID, contents []byte) {
	m.files[id].contents = contents
}

// Len returns the number of files registered with this manager.
func (m *Manager) Len() int {
	return len(m.files)
}
