// Package source owns the text of every loaded compilation unit and maps
// byte offsets back to human-readable positions for diagnostics.
package source

import (
	"strconv"
	"strings"
)

// FileID identifies a loaded source within a Map. The zero value is
// never a valid id.
type FileID int

// File is one loaded compilation unit: a name (path or "cin") and its
// full text.
type File struct {
	ID   FileID
	Name string
	Text string
}

// Map is the registry of loaded sources. Positions computed from a Map
// stay valid for the lifetime of the Map.
type Map struct {
	files []*File
}

// NewMap returns an empty source map.
func NewMap() *Map {
	return &Map{}
}

// Add registers a source and returns its file handle.
func (m *Map) Add(name, text string) *File {
	f := &File{ID: FileID(len(m.files) + 1), Name: name, Text: text}
	m.files = append(m.files, f)
	return f
}

// File returns the file for id, or nil if the id is unknown.
func (m *Map) File(id FileID) *File {
	idx := int(id) - 1
	if idx < 0 || idx >= len(m.files) {
		return nil
	}
	return m.files[idx]
}

// Location is a byte offset inside a loaded file. Line, column and the
// enclosing source line are computed on demand.
type Location struct {
	File   *File
	Offset int
}

// Loc returns a location at offset within f.
func Loc(f *File, offset int) Location {
	return Location{File: f, Offset: offset}
}

// LineCol computes the 1-based line and column of the location. Empty
// sources yield line 1, column 1; offsets past the end clamp to the end
// of the text.
func (l Location) LineCol() (line, col int) {
	line, col = 1, 1
	if l.File == nil || l.File.Text == "" {
		return
	}
	text := l.File.Text
	end := l.Offset
	if end > len(text) {
		end = len(text)
	}
	for i := 0; i < end; i++ {
		if text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return
}

// Line returns the 1-based line of the location.
func (l Location) Line() int {
	line, _ := l.LineCol()
	return line
}

// Column returns the 1-based column of the location.
func (l Location) Column() int {
	_, col := l.LineCol()
	return col
}

// SourceLine returns the full text of the line containing the location,
// without the trailing newline.
func (l Location) SourceLine() string {
	if l.File == nil || l.File.Text == "" {
		return ""
	}
	text := l.File.Text
	off := l.Offset
	if off > len(text) {
		off = len(text)
	}
	start := strings.LastIndexByte(text[:off], '\n') + 1
	end := strings.IndexByte(text[start:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : start+end]
}

// Filename returns the name of the containing file, or "" for the zero
// location.
func (l Location) Filename() string {
	if l.File == nil {
		return ""
	}
	return l.File.Name
}

// String renders the location as file:line:col.
func (l Location) String() string {
	line, col := l.LineCol()
	pos := strconv.Itoa(line) + ":" + strconv.Itoa(col)
	if l.File == nil {
		return pos
	}
	return l.File.Name + ":" + pos
}

// Before reports whether l precedes other in the same file.
func (l Location) Before(other Location) bool {
	return l.Offset < other.Offset
}

// Key returns a value usable as a map key identifying this exact
// position. Two locations in different files never collide.
func (l Location) Key() LocationKey {
	k := LocationKey{Offset: l.Offset}
	if l.File != nil {
		k.File = l.File.ID
	}
	return k
}

// LocationKey is the comparable identity of a Location.
type LocationKey struct {
	File   FileID
	Offset int
}

// Range is an ordered pair of locations in the same file; Start never
// follows End.
type Range struct {
	Start Location
	End   Location
}

// NewRange builds a range from two locations, swapping them if given
// out of order.
func NewRange(start, end Location) Range {
	if end.Before(start) {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// Span joins two ranges into one covering both.
func Span(a, b Range) Range {
	r := a
	if b.Start.Before(r.Start) {
		r.Start = b.Start
	}
	if r.End.Before(b.End) {
		r.End = b.End
	}
	return r
}

// Contains reports whether r fully encloses other.
func (r Range) Contains(other Range) bool {
	return !other.Start.Before(r.Start) && !r.End.Before(other.End)
}

