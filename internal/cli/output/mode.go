// Package output renders command results for terminals, pipes and scripts.
//
// A Renderer resolves ModeAuto against the attached writer: styled text on a
// terminal, markdown everywhere else. JSON and CSV are always explicit.
package output

import (
	"fmt"
	"strings"
)

// Mode selects how results are written.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
)

// Modes lists the accepted mode names.
var Modes = []Mode{ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeCSV}

// ParseMode normalizes a mode name. An empty name is ModeAuto and "md" is
// accepted for markdown.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "text", "table":
		return ModeText, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	case "json":
		return ModeJSON, nil
	case "csv":
		return ModeCSV, nil
	default:
		return "", fmt.Errorf("unknown output mode %q (valid: %v)", s, Modes)
	}
}
