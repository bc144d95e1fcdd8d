// Package toc builds a post's outline from its headings and tracks which
// heading is being read.
package toc

import "strconv"

const (
	MinLevel = 1
	MaxLevel = 3

	// NarrowViewport is the widest viewport, in CSS pixels, on which the
	// outline is shown as an overlay panel.
	NarrowViewport = 768

	indentStep   = 16
	baseFontSize = 16
)

// Heading is a level 1-3 heading of rendered content, in document order.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// AnchorID is the element id given to the index-th outlined heading.
func AnchorID(index int) string {
	return "heading-" + strconv.Itoa(index)
}

type Entry struct {
	HeadingID string `json:"headingId"`
	Text      string `json:"text"`
	Level     int    `json:"level"`
	Indent    int    `json:"indent"`   // px
	FontSize  int    `json:"fontSize"` // px
	Marker    string `json:"marker"`
	Active    bool   `json:"active"`
}

type Outline struct {
	Entries []Entry `json:"entries"`
	// Visible is false when there is nothing to outline; the panel and its
	// toggle stay hidden.
	Visible bool `json:"visible"`
}

// Build turns headings into outline entries. Deeper levels are indented
// further and drawn smaller.
func Build(headings []Heading) Outline {
	entries := make([]Entry, 0, len(headings))
	for _, h := range headings {
		if h.Level < MinLevel || h.Level > MaxLevel {
			continue
		}
		entries = append(entries, Entry{
			HeadingID: h.ID,
			Text:      h.Text,
			Level:     h.Level,
			Indent:    (h.Level - 1) * indentStep,
			FontSize:  baseFontSize - h.Level,
			Marker:    marker(h.Level),
		})
	}
	return Outline{Entries: entries, Visible: len(entries) > 0}
}

func marker(level int) string {
	switch level {
	case 1:
		return "📌"
	case 2:
		return "▸"
	default:
		return "·"
	}
}
