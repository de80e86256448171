package chunker

import (
	"regexp"
	"sort"
	"strings"

	"github.com/srewoo/repospector/pkg/types"
)

// boundary is a candidate structural span within the source text, expressed
// as byte offsets [start, end).
type boundary struct {
	start int
	end   int
	kind  types.ChunkKind
}

// Declaration markers across the language families the index sees most.
// Matches anchor to the start of a line; span extent is resolved separately
// by brace or indentation scanning.
var boundaryPatterns = []struct {
	re     *regexp.Regexp
	kind   types.ChunkKind
	indent bool // span ends when indentation returns to the base level
}{
	// Go functions and methods
	{regexp.MustCompile(`(?m)^[ \t]*func\s+(?:\([^)]*\)\s*)?[A-Za-z_]\w*\s*\(`), types.ChunkFunction, false},
	// JS/TS function declarations (incl. export/async/generator)
	{regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*[A-Za-z_$][\w$]*\s*\(`), types.ChunkFunction, false},
	// JS/TS arrow functions bound to a const/let/var
	{regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:const|let|var)\s+[A-Za-z_$][\w$]*\s*=\s*(?:async\s*)?\([^)\n]*\)\s*=>`), types.ChunkFunction, false},
	// Class declarations (JS/TS/Java/C#/Python share the keyword)
	{regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:public\s+|abstract\s+|final\s+)*class\s+[A-Za-z_$][\w$]*`), types.ChunkClass, false},
	// Rust functions
	{regexp.MustCompile(`(?m)^[ \t]*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+[A-Za-z_]\w*`), types.ChunkFunction, false},
	// Python/Ruby defs: no brace model, indentation delimits the body
	{regexp.MustCompile(`(?m)^[ \t]*(?:async\s+)?def\s+[A-Za-z_]\w*`), types.ChunkFunction, true},
	// C/C++/Java/C# style: a signature line ending with ") {"
	{regexp.MustCompile(`(?m)^[ \t]*[^\s/#{}][^\n]*\)[ \t]*\{[ \t]*$`), types.ChunkMethod, false},
}

// braceSearchWindow bounds how far past a declaration the opening brace may
// sit (multi-line signatures).
const braceSearchWindow = 500

// detectBoundaries finds declaration spans in text. The result is unsorted
// and may overlap; callers merge via mergeBoundaries.
func detectBoundaries(text string) []boundary {
	var found []boundary
	for _, p := range boundaryPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			start := lineStart(text, loc[0])
			var end int
			if p.indent {
				end = indentationSpanEnd(text, start)
			} else {
				end = braceSpanEnd(text, loc[0])
				if end < 0 {
					// Declaration without a reachable brace (interface
					// method, prototype): fall back to the indent model.
					end = indentationSpanEnd(text, start)
				}
			}
			if end > start {
				found = append(found, boundary{start: start, end: end, kind: p.kind})
			}
		}
	}
	return found
}

// braceSpanEnd scans from the declaration for its opening brace and returns
// the offset just past the matching close brace, extended to the end of that
// line. String literals and comments are tracked so braces inside them are
// not counted. Returns -1 if no opening brace is found nearby.
func braceSpanEnd(text string, declStart int) int {
	open := -1
	limit := declStart + braceSearchWindow
	if limit > len(text) {
		limit = len(text)
	}
	for i := declStart; i < limit; i++ {
		if text[i] == '{' {
			open = i
			break
		}
	}
	if open < 0 {
		return -1
	}

	depth := 0
	var inString byte // active quote char, 0 when outside a literal
	inLineComment := false
	inBlockComment := false

	for i := open; i < len(text); i++ {
		ch := text[i]

		switch {
		case inLineComment:
			if ch == '\n' {
				inLineComment = false
			}
		case inBlockComment:
			if ch == '*' && i+1 < len(text) && text[i+1] == '/' {
				inBlockComment = false
				i++
			}
		case inString != 0:
			if ch == '\\' && inString != '`' {
				i++ // skip escaped char
			} else if ch == inString {
				inString = 0
			}
		default:
			switch ch {
			case '"', '\'', '`':
				inString = ch
			case '/':
				if i+1 < len(text) {
					switch text[i+1] {
					case '/':
						inLineComment = true
						i++
					case '*':
						inBlockComment = true
						i++
					}
				}
			case '#':
				inLineComment = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return lineEnd(text, i)
				}
			}
		}
	}
	// Unbalanced input: the span runs to end of text.
	return len(text)
}

// indentationSpanEnd extends a declaration until indentation returns to the
// declaration's base level. Blank lines never terminate the span.
func indentationSpanEnd(text string, declStart int) int {
	base := indentWidth(text[declStart:lineEnd(text, declStart)])
	pos := lineEnd(text, declStart)
	end := pos
	for pos < len(text) {
		next := lineEnd(text, pos)
		line := text[pos:next]
		if strings.TrimSpace(line) != "" {
			if indentWidth(line) <= base {
				break
			}
			end = next
		}
		pos = next
	}
	return end
}

func indentWidth(line string) int {
	w := 0
	for _, ch := range line {
		switch ch {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}

// lineStart returns the offset of the first byte of the line containing pos.
func lineStart(text string, pos int) int {
	for pos > 0 && text[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the offset just past the line containing pos, including its
// trailing newline when present.
func lineEnd(text string, pos int) int {
	if pos >= len(text) {
		return len(text)
	}
	for pos < len(text) && text[pos] != '\n' {
		pos++
	}
	if pos < len(text) {
		pos++ // include the newline
	}
	return pos
}

// mergeBoundaries sorts boundaries and merges any that overlap or touch,
// then inserts gap boundaries so the result is an ascending, non-overlapping
// sequence covering [0, len(text)).
func mergeBoundaries(text string, bounds []boundary) []boundary {
	if len(text) == 0 {
		return nil
	}
	if len(bounds) == 0 {
		return synthesizeLineBoundaries(text)
	}

	sort.Slice(bounds, func(i, j int) bool {
		if bounds[i].start != bounds[j].start {
			return bounds[i].start < bounds[j].start
		}
		return bounds[i].end > bounds[j].end
	})

	merged := []boundary{bounds[0]}
	for _, b := range bounds[1:] {
		last := &merged[len(merged)-1]
		if b.start <= last.end {
			if b.end > last.end {
				last.end = b.end
			}
			continue
		}
		merged = append(merged, b)
	}

	// Cover gaps so the walk reconstructs the whole file.
	covered := make([]boundary, 0, len(merged)*2+1)
	pos := 0
	for _, b := range merged {
		if b.start > pos {
			covered = append(covered, boundary{start: pos, end: b.start, kind: types.ChunkBlock})
		}
		covered = append(covered, b)
		pos = b.end
	}
	if pos < len(text) {
		covered = append(covered, boundary{start: pos, end: len(text), kind: types.ChunkBlock})
	}
	return covered
}

// fallbackSegmentLines sizes the synthesized boundaries for files where no
// structural markers matched (plain text, data files).
const fallbackSegmentLines = 50

// synthesizeLineBoundaries cuts the text into evenly sized line ranges so
// every non-empty file yields at least one chunk.
func synthesizeLineBoundaries(text string) []boundary {
	var bounds []boundary
	start := 0
	lines := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines++
			if lines == fallbackSegmentLines {
				bounds = append(bounds, boundary{start: start, end: i + 1, kind: types.ChunkSegment})
				start = i + 1
				lines = 0
			}
		}
	}
	if start < len(text) {
		bounds = append(bounds, boundary{start: start, end: len(text), kind: types.ChunkSegment})
	}
	return bounds
}
