package tacc

import (
	"errors"
	"fmt"
	"strings"
)

// Positioned is implemented by errors that point at a source offset.
type Positioned interface {
	error
	Position() int
}

// Diagnostic formats err for a human. Positioned errors get a
// name:line:col prefix followed by the source line and a caret.
func Diagnostic(name, source string, err error) string {
	var pe Positioned
	if !errors.As(err, &pe) {
		return fmt.Sprintf("%s: %v\n", name, err)
	}

	pos := pe.Position()
	line, col := LineCol(source, pos)

	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %v\n", name, line, col, err)

	text := sourceLine(source, pos)
	b.WriteString(text)
	b.WriteString("\n")
	for i := 0; i < col-1 && i < len(text); i++ {
		if text[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString("^\n")

	return b.String()
}

// sourceLine returns the line containing offset pos, without its newline.
func sourceLine(source string, pos int) string {
	if pos > len(source) {
		pos = len(source)
	}

	start := strings.LastIndexByte(source[:pos], '\n') + 1

	end := strings.IndexByte(source[pos:], '\n')
	if end < 0 {
		return source[start:]
	}

	return source[start : pos+end]
}
