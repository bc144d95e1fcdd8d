// Package poststore loads, saves and publishes posts and the editor draft on
// top of a kv.Store.
package poststore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"scribe/kv"
	"scribe/models"
	"scribe/textutil"
)

const (
	PostsKey = "blog_posts"
	DraftKey = "blog_draft"
	AdminKey = "isAdmin"

	DefaultAuthor = "Anonymous"
)

type Store struct {
	kv    kv.Store
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

// WithClock overrides the publish timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides post id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:    store,
		now:   time.Now,
		newID: NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a time-ordered id with a random tail (UUIDv7).
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// LoadPosts returns the stored collection, newest first. A missing or
// unreadable value yields an empty collection.
func (s *Store) LoadPosts(ctx context.Context) []models.Post {
	var posts []models.Post
	if !s.load(ctx, PostsKey, &posts) || posts == nil {
		return []models.Post{}
	}
	return posts
}

// SavePosts overwrites the stored collection.
func (s *Store) SavePosts(ctx context.Context, posts []models.Post) error {
	return s.save(ctx, PostsKey, posts)
}

// FindPost looks a post up by id.
func (s *Store) FindPost(ctx context.Context, id string) (models.Post, error) {
	for _, p := range s.LoadPosts(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Post{}, &NotFoundError{ID: id}
}

// Publish validates the draft, turns it into a post at the front of the
// collection and persists the collection. On error nothing is written.
func (s *Store) Publish(ctx context.Context, d models.Draft) (models.Post, error) {
	title := strings.TrimSpace(d.Title)
	content := strings.TrimSpace(d.Content)
	author := strings.TrimSpace(d.Author)

	if err := validation.Validate(title, validation.Required); err != nil {
		return models.Post{}, &ValidationError{Field: "title", Message: "Please enter a title for your post!", Err: err}
	}
	if err := validation.Validate(content, validation.Required); err != nil {
		return models.Post{}, &ValidationError{Field: "content", Message: "Please write some content for your post!", Err: err}
	}
	if author == "" {
		author = DefaultAuthor
	}

	post := models.Post{
		ID:       s.newID(),
		Title:    title,
		Author:   author,
		Content:  content,
		Date:     s.now().UTC(),
		Category: strings.TrimSpace(d.Category),
		Tags:     textutil.SplitTags(d.Tags),
		ReadTime: textutil.ReadTime(content),
	}

	// A read failure is not an empty collection.
	var posts []models.Post
	if _, err := s.read(ctx, PostsKey, &posts); err != nil {
		return models.Post{}, fmt.Errorf("reading posts: %w", err)
	}
	posts = append([]models.Post{post}, posts...)
	if err := s.SavePosts(ctx, posts); err != nil {
		return models.Post{}, err
	}

	slog.InfoContext(ctx, "Published post", slog.String("id", post.ID), slog.String("title", post.Title))
	return post, nil
}

// LoadDraft returns the saved draft, if any.
func (s *Store) LoadDraft(ctx context.Context) (models.Draft, bool) {
	var d models.Draft
	if !s.load(ctx, DraftKey, &d) {
		return models.Draft{}, false
	}
	return d, true
}

func (s *Store) SaveDraft(ctx context.Context, d models.Draft) error {
	return s.save(ctx, DraftKey, d)
}

func (s *Store) ClearDraft(ctx context.Context) error {
	return s.kv.Delete(ctx, DraftKey)
}

// read decodes the value under key into dst. A missing or undecodable value
// reports false with a nil error; a failing backend returns its error.
func (s *Store) read(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		slog.WarnContext(ctx, "Ignoring unreadable stored value", slog.Any("err", &StorageCorruptError{Key: key, Err: err}))
		return false, nil
	}
	return true, nil
}

func (s *Store) load(ctx context.Context, key string, dst any) bool {
	ok, err := s.read(ctx, key, dst)
	if err != nil {
		slog.WarnContext(ctx, "Couldn't read from store", slog.String("key", key), slog.Any("err", err))
		return false
	}
	return ok
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, string(raw))
}
