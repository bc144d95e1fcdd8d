package editor

import (
	"errors"
	"strings"
)

type Action string

const (
	ActionBold    Action = "bold"
	ActionItalic  Action = "italic"
	ActionHeading Action = "heading"
	ActionLink    Action = "link"
	ActionCode    Action = "code"
)

var ErrUnknownAction = errors.New("editor: unknown format action")

// Format replaces the selection [start, end) of text, counted in runes, with
// the Markdown construct for action. An empty selection gets a placeholder
// label. It returns the new text and the cursor position right after the
// inserted construct.
func Format(text string, start, end int, action Action) (string, int, error) {
	runes := []rune(text)
	start, end = clampSelection(len(runes), start, end)
	selected := string(runes[start:end])

	var replacement string
	switch action {
	case ActionBold:
		replacement = "**" + orPlaceholder(selected, "bold text") + "**"
	case ActionItalic:
		replacement = "*" + orPlaceholder(selected, "italic text") + "*"
	case ActionHeading:
		replacement = "## " + orPlaceholder(selected, "Heading")
	case ActionLink:
		replacement = "[" + orPlaceholder(selected, "link text") + "](url)"
	case ActionCode:
		if strings.Contains(selected, "\n") {
			replacement = "```\n" + selected + "\n```"
		} else {
			replacement = "`" + orPlaceholder(selected, "code") + "`"
		}
	default:
		return text, end, ErrUnknownAction
	}

	out := string(runes[:start]) + replacement + string(runes[end:])
	return out, start + len([]rune(replacement)), nil
}

func orPlaceholder(selected, placeholder string) string {
	if selected == "" {
		return placeholder
	}
	return selected
}

func clampSelection(n, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	return start, end
}
