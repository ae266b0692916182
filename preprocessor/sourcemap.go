package preprocessor

import (
	"sort"
	"strings"

	"github.com/gogpu/shaderlab/source"
)

// segment maps a range of the preprocessed text back to an original file.
// Verbatim segments map byte for byte; the others (macro expansions,
// replaced directive lines) map every byte to origStart.
type segment struct {
	genStart  int
	genEnd    int
	file      string
	origStart int
	verbatim  bool
}

type fileInfo struct {
	text  string
	lines *source.LineIndex
}

// SourceMap converts offsets in preprocessed text into positions in the
// user-authored text (the main source or an include chunk).
type SourceMap struct {
	segments []segment
	files    map[string]*fileInfo
}

func newSourceMap() *SourceMap {
	return &SourceMap{files: make(map[string]*fileInfo)}
}

func (m *SourceMap) addFile(name, text string) {
	if _, ok := m.files[name]; ok {
		return
	}
	m.files[name] = &fileInfo{text: text, lines: source.NewLineIndex(text)}
}

func (m *SourceMap) add(s segment) {
	if s.genEnd <= s.genStart {
		return
	}
	if n := len(m.segments); n > 0 && s.verbatim {
		last := &m.segments[n-1]
		if last.verbatim && last.file == s.file && last.genEnd == s.genStart &&
			last.origStart+(last.genEnd-last.genStart) == s.origStart {
			last.genEnd = s.genEnd
			return
		}
	}
	m.segments = append(m.segments, s)
}

// Lookup returns the file name (empty for the main source) and the original
// position of the preprocessed byte at index.
func (m *SourceMap) Lookup(index int) (string, source.Position) {
	if len(m.segments) == 0 {
		info := m.files[""]
		if info == nil {
			return "", source.Position{Index: index, Line: 1, Column: index + 1}
		}
		return "", info.lines.Position(index)
	}

	i := sort.Search(len(m.segments), func(i int) bool { return m.segments[i].genEnd > index })
	if i == len(m.segments) {
		i = len(m.segments) - 1
	}
	seg := m.segments[i]
	orig := seg.origStart
	if seg.verbatim {
		delta := index - seg.genStart
		if delta < 0 {
			delta = 0
		}
		orig += delta
	}
	return seg.file, m.files[seg.file].lines.Position(orig)
}

// ConvertSourceIndex returns the original position of the preprocessed byte
// at index.
func (m *SourceMap) ConvertSourceIndex(index int) source.Position {
	_, pos := m.Lookup(index)
	return pos
}

// Text returns the original text of a file known to the map.
func (m *SourceMap) Text(file string) string {
	if info, ok := m.files[file]; ok {
		return info.text
	}
	return ""
}

// Remap rewrites an error positioned in preprocessed text so that it points
// at the user-authored source.
func (m *SourceMap) Remap(err *source.Error) *source.Error {
	if err == nil || !err.Pos.IsValid() {
		return err
	}
	file, pos := m.Lookup(err.Pos.Index)
	return &source.Error{
		Message: err.Message,
		Pos:     pos,
		File:    file,
		Source:  m.Text(file),
	}
}

// output accumulates preprocessed text together with its segments.
type output struct {
	sb strings.Builder
	sm *SourceMap
}

func (o *output) len() int {
	return o.sb.Len()
}

func (o *output) verbatim(text, file string, origStart int) {
	start := o.sb.Len()
	o.sb.WriteString(text)
	o.sm.add(segment{genStart: start, genEnd: o.sb.Len(), file: file, origStart: origStart, verbatim: true})
}

func (o *output) mapped(text, file string, origStart int) {
	start := o.sb.Len()
	o.sb.WriteString(text)
	o.sm.add(segment{genStart: start, genEnd: o.sb.Len(), file: file, origStart: origStart})
}
