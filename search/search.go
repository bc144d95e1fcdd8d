// Package search narrows a post collection by tag and free-text query.
//
// Every function here is pure and preserves the input order, which is
// newest-first.
package search

import (
	"sort"
	"strings"

	"scribe/models"
)

// TopTagLimit is how many tags PopularTags callers show.
const TopTagLimit = 8

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Filter keeps the posts carrying activeFilter (exact match, when set) and,
// when searchTerm is not blank, containing it case-insensitively in the
// title, content, author, any tag or the category.
func Filter(posts []models.Post, activeFilter, searchTerm string) []models.Post {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if activeFilter != "" && !p.HasTag(activeFilter) {
			continue
		}
		if term != "" && !Matches(p, term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Matches reports whether the lower-cased term occurs in any searchable
// field of p.
func Matches(p models.Post, term string) bool {
	if contains(p.Title, term) || contains(p.Content, term) ||
		contains(p.Author, term) || contains(p.Category, term) {
		return true
	}
	for _, tag := range p.Tags {
		if contains(tag, term) {
			return true
		}
	}
	return false
}

func contains(field, term string) bool {
	return strings.Contains(strings.ToLower(field), term)
}

// ToggleTag returns the filter that results from selecting tag while active
// is selected: the same tag again clears the filter.
func ToggleTag(active, tag string) string {
	if active == tag {
		return ""
	}
	return tag
}

// PopularTags counts tag occurrences across posts, most used first. Ties keep
// the order in which tags were first seen. limit <= 0 returns every tag.
func PopularTags(posts []models.Post, limit int) []TagCount {
	var counts []TagCount
	index := make(map[string]int)
	for _, p := range posts {
		for _, tag := range p.Tags {
			if i, ok := index[tag]; ok {
				counts[i].Count++
				continue
			}
			index[tag] = len(counts)
			counts = append(counts, TagCount{Tag: tag, Count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
