package search

import (
	"strings"

	"scribe/models"
)

// State is the reader's filter state. FilteredPosts is always derived from
// the other fields; update it only through the With* methods.
type State struct {
	AllPosts      []models.Post
	ActiveFilter  string
	SearchTerm    string
	FilteredPosts []models.Post
}

func NewState(posts []models.Post) State {
	return State{AllPosts: posts}.recompute()
}

func (s State) WithSearch(term string) State {
	s.SearchTerm = term
	return s.recompute()
}

func (s State) WithToggledTag(tag string) State {
	s.ActiveFilter = ToggleTag(s.ActiveFilter, tag)
	return s.recompute()
}

// Filtering reports whether a tag or a search term is narrowing the list.
func (s State) Filtering() bool {
	return s.ActiveFilter != "" || strings.TrimSpace(s.SearchTerm) != ""
}

func (s State) recompute() State {
	s.FilteredPosts = Filter(s.AllPosts, s.ActiveFilter, s.SearchTerm)
	return s
}
