package unreal

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders the source line at pos with a caret under the
// column. Positions without source text render nothing.
func formatCodeFrame(pos Position) string {
	if pos.Text == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(pos.Text, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[pos.Line-1], "\r")
	lineRunes := []rune(lineText)

	column := pos.Column
	if column <= 0 {
		column = 1
	}
	if column > len(lineRunes)+1 {
		column = len(lineRunes) + 1
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caretPad,
	)
}

// Traceback renders the frames of a runtime error, outermost first.
func (e *RuntimeError) Traceback() string {
	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for _, frame := range e.Frames() {
		fmt.Fprintf(&b, "   File %s, line %d, in %s\n", frame.Pos.File, frame.Pos.Line, frame.Context)
	}
	return b.String()
}
