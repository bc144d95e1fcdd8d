// Package reader drives the reading side: the filtered post list, the single
// post view with its table of contents, and navigation between them.
package reader

import (
	"context"
	"time"

	"scribe/markdown"
	"scribe/models"
	"scribe/poststore"
	"scribe/search"
	"scribe/textutil"
	"scribe/toc"
)

type PostSource interface {
	LoadPosts(ctx context.Context) []models.Post
}

type Renderer interface {
	Render(src []byte) (markdown.Document, error)
}

// Session holds one reader's navigation and filter state. Posts are loaded
// once, when the session is created.
type Session struct {
	renderer Renderer
	now      func() time.Time

	filter  search.State
	tracker *toc.Tracker
	view    View
	detail  *DetailView
}

func NewSession(ctx context.Context, src PostSource, renderer Renderer) *Session {
	return &Session{
		renderer: renderer,
		now:      time.Now,
		filter:   search.NewState(src.LoadPosts(ctx)),
		tracker:  toc.NewTracker(),
	}
}

// Start opens postID directly when it is set, as after a redirect from the
// editor. An unknown id leaves the session on the list and returns the
// *poststore.NotFoundError.
func (s *Session) Start(postID string) (View, error) {
	if postID == "" {
		return ViewList, nil
	}
	if _, err := s.Open(postID); err != nil {
		return ViewList, err
	}
	return ViewDetail, nil
}

func (s *Session) View() View {
	return s.view
}

func (s *Session) Filter() search.State {
	return s.filter
}

// Tracker is the active-heading observer of the open post.
func (s *Session) Tracker() *toc.Tracker {
	return s.tracker
}

func (s *Session) Search(term string) ListView {
	s.filter = s.filter.WithSearch(term)
	return s.List()
}

func (s *Session) ToggleTag(tag string) ListView {
	s.filter = s.filter.WithToggledTag(tag)
	return s.List()
}

// List builds the list view from the current filter state.
func (s *Session) List() ListView {
	now := s.now()
	posts := s.filter.FilteredPosts

	lv := ListView{
		Items:        make([]ListItem, 0, len(posts)),
		PopularTags:  search.PopularTags(s.filter.AllPosts, search.TopTagLimit),
		ActiveFilter: s.filter.ActiveFilter,
		SearchTerm:   s.filter.SearchTerm,
		Total:        len(s.filter.AllPosts),
		Filtering:    s.filter.Filtering(),
	}
	for _, p := range posts {
		lv.Items = append(lv.Items, listItem(p, now))
	}

	var empty EmptyState
	switch {
	case len(s.filter.AllPosts) == 0:
		empty = emptyNoPosts
	case len(posts) == 0:
		empty = emptyNoMatch
	default:
		return lv
	}
	lv.Empty = &empty
	return lv
}

func listItem(p models.Post, now time.Time) ListItem {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, textutil.EscapeHTML(t))
	}
	return ListItem{
		ID:           p.ID,
		Slug:         textutil.Slug(p.Title),
		Title:        textutil.EscapeHTML(p.Title),
		Excerpt:      textutil.EscapeHTML(textutil.Excerpt(p.Content, textutil.DefaultExcerptLength)),
		Author:       textutil.EscapeHTML(p.Author),
		Date:         textutil.FormatDate(p.Date),
		RelativeDate: textutil.FormatRelative(p.Date, now),
		Category:     textutil.EscapeHTML(p.Category),
		Tags:         tags,
		ReadTime:     p.ReadTime,
	}
}

// Open switches to the detail view of post id and attaches the heading
// tracker to its outline.
func (s *Session) Open(id string) (DetailView, error) {
	post, ok := s.find(id)
	if !ok {
		return DetailView{}, &poststore.NotFoundError{ID: id}
	}

	doc, err := s.renderer.Render([]byte(post.Content))
	if err != nil {
		return DetailView{}, err
	}

	outline := toc.Build(doc.Headings)
	dv := DetailView{
		ID:       post.ID,
		Title:    post.Title,
		Author:   "By " + post.Author,
		Date:     textutil.FormatDate(post.Date),
		HTML:     string(doc.HTML),
		Outline:  outline,
		ReadTime: post.ReadTime,
		Category: post.Category,
		Tags:     post.Tags,
	}

	s.tracker.Detach()
	s.tracker.Attach(outline)
	s.detail = &dv
	s.view = ViewDetail
	return dv, nil
}

// Detail returns the open post, if the session is on the detail view.
func (s *Session) Detail() (DetailView, bool) {
	if s.view != ViewDetail || s.detail == nil {
		return DetailView{}, false
	}
	return *s.detail, true
}

// Back leaves the detail view: heading tracking stops and the detail-only
// decorations are dropped.
func (s *Session) Back() ListView {
	s.tracker.Detach()
	s.detail = nil
	s.view = ViewList
	return s.List()
}

func (s *Session) find(id string) (models.Post, bool) {
	for _, p := range s.filter.AllPosts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}
