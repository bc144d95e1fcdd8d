package reader

import (
	"scribe/search"
	"scribe/toc"
)

type View int

const (
	ViewList View = iota
	ViewDetail
)

func (v View) String() string {
	if v == ViewDetail {
		return "detail"
	}
	return "list"
}

// ListItem fields are HTML-escaped and ready to embed.
type ListItem struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Excerpt      string   `json:"excerpt"`
	Author       string   `json:"author"`
	Date         string   `json:"date"`
	RelativeDate string   `json:"relativeDate"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ReadTime     int      `json:"readTime,omitempty"`
}

type EmptyState struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

var (
	emptyNoPosts = EmptyState{Title: "No posts yet", Message: "Be the first to write something amazing!"}
	emptyNoMatch = EmptyState{Title: "No matching posts", Message: "Try a different search term or tag."}
)

type ListView struct {
	Items        []ListItem        `json:"items"`
	Empty        *EmptyState       `json:"empty,omitempty"`
	PopularTags  []search.TagCount `json:"popularTags"`
	ActiveFilter string            `json:"activeFilter,omitempty"`
	SearchTerm   string            `json:"searchTerm,omitempty"`
	Total        int               `json:"total"`
	Filtering    bool              `json:"filtering"`
}

// DetailView carries the rendered post. HTML comes from the Markdown
// renderer unescaped; Title and Author are plain text.
type DetailView struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Author   string      `json:"author"`
	Date     string      `json:"date"`
	HTML     string      `json:"html"`
	Outline  toc.Outline `json:"outline"`
	ReadTime int         `json:"readTime,omitempty"`
	Category string      `json:"category,omitempty"`
	Tags     []string    `json:"tags,omitempty"`
}
