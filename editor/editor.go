// Package editor drives the post editor: the draft lifecycle with debounced
// autosave, publishing, discarding and toolbar formatting.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"scribe/markdown"
	"scribe/models"
	"scribe/poststore"
	"scribe/schedule"
	"scribe/toc"
)

type State int

const (
	StateEmpty State = iota
	StateEditing
	StateAutoSaving
	StatePublishing
	StatePublished
	StateDiscarding
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateAutoSaving:
		return "autosaving"
	case StatePublishing:
		return "publishing"
	case StatePublished:
		return "published"
	case StateDiscarding:
		return "discarding"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Done reports whether the session has ended.
func (s State) Done() bool {
	return s == StatePublished || s == StateClosed
}

const (
	DefaultAutosaveDelay  = 2000 * time.Millisecond
	DefaultRedirectDelay  = 1000 * time.Millisecond
	DefaultNoticeDuration = 3000 * time.Millisecond

	previewPlaceholder = "Your preview will appear here..."
)

var (
	ErrSessionDone   = errors.New("editor: session has ended")
	ErrNotDiscarding = errors.New("editor: no discard awaiting confirmation")
)

type Config struct {
	AutosaveDelay  time.Duration
	RedirectDelay  time.Duration
	NoticeDuration time.Duration
	// OnRedirect is called once the post-publish delay has passed with the
	// reader address of the new post.
	OnRedirect func(target string)
}

type Session struct {
	store    *poststore.Store
	renderer *markdown.Renderer
	clock    schedule.Clock
	autosave *schedule.Debouncer
	notices  *schedule.Notifier
	cfg      Config

	mu            sync.Mutex
	state         State
	beforeDiscard State
	draft         models.Draft
	redirect      string
}

func NewSession(store *poststore.Store, renderer *markdown.Renderer, clock schedule.Clock, cfg Config) *Session {
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = DefaultAutosaveDelay
	}
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = DefaultRedirectDelay
	}
	if cfg.NoticeDuration <= 0 {
		cfg.NoticeDuration = DefaultNoticeDuration
	}
	return &Session{
		store:    store,
		renderer: renderer,
		clock:    clock,
		autosave: schedule.NewDebouncer(clock, cfg.AutosaveDelay),
		notices:  schedule.NewNotifier(clock, cfg.NoticeDuration),
		cfg:      cfg,
	}
}

// Start loads the saved draft, if any.
func (s *Session) Start(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.store.LoadDraft(ctx); ok {
		s.draft = d
		s.state = StateEditing
	} else {
		s.state = StateEmpty
	}
	return s.state
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Draft() models.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Input replaces the form fields, as on a keystroke, and reschedules the
// autosave.
func (s *Session) Input(d models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Done() {
		return ErrSessionDone
	}
	s.draft = d
	s.touchLocked()
	return nil
}

func (s *Session) touchLocked() {
	s.state = StateEditing
	s.autosave.Schedule(s.autoSave)
}

func (s *Session) autoSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return
	}

	s.state = StateAutoSaving
	ctx := context.Background()
	if err := s.store.SaveDraft(ctx, s.draft); err != nil {
		slog.WarnContext(ctx, "Autosave failed", slog.Any("err", err))
	}
	s.state = StateEditing
}

// SaveNow saves the draft immediately, dropping any pending autosave.
func (s *Session) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Done() {
		return ErrSessionDone
	}

	s.autosave.CancelPending()
	if err := s.store.SaveDraft(ctx, s.draft); err != nil {
		s.notices.ShowError("Couldn't save draft")
		return err
	}
	if s.state == StateEmpty {
		s.state = StateEditing
	}
	s.notices.Show("Draft saved!")
	return nil
}

// Publish turns the draft into a post. A *poststore.ValidationError leaves
// the session editing with nothing written.
func (s *Session) Publish(ctx context.Context) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Done() {
		return models.Post{}, ErrSessionDone
	}

	prev := s.state
	s.state = StatePublishing
	post, err := s.store.Publish(ctx, s.draft)
	if err != nil {
		var verr *poststore.ValidationError
		if errors.As(err, &verr) {
			s.notices.ShowError(verr.Message)
		} else {
			s.notices.ShowError("Couldn't publish post")
		}
		s.state = prev
		return models.Post{}, err
	}

	s.autosave.CancelPending()
	if err := s.store.ClearDraft(ctx); err != nil {
		slog.WarnContext(ctx, "Couldn't clear draft after publish", slog.Any("err", err))
	}
	s.draft = models.Draft{}
	s.state = StatePublished
	s.notices.Show("Post published successfully! 🎉")

	target := ReaderURL(post.ID)
	s.clock.AfterFunc(s.cfg.RedirectDelay, func() {
		s.mu.Lock()
		s.redirect = target
		s.mu.Unlock()
		if s.cfg.OnRedirect != nil {
			s.cfg.OnRedirect(target)
		}
	})
	return post, nil
}

// ReaderURL is the reader address that opens post id directly.
func ReaderURL(id string) string {
	return "/?post=" + url.QueryEscape(id)
}

// Redirect returns the reader address once the post-publish delay passed.
func (s *Session) Redirect() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirect, s.redirect != ""
}

// RequestDiscard asks for confirmation before throwing the draft away.
func (s *Session) RequestDiscard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Done() {
		return ErrSessionDone
	}
	if s.state != StateDiscarding {
		s.beforeDiscard = s.state
	}
	s.state = StateDiscarding
	return nil
}

// ConfirmDiscard resolves a pending discard. On ok the draft is deleted and
// the session closes; otherwise the session returns to its prior state.
func (s *Session) ConfirmDiscard(ctx context.Context, ok bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDiscarding {
		return ErrNotDiscarding
	}
	if !ok {
		s.state = s.beforeDiscard
		return nil
	}

	s.autosave.CancelPending()
	if err := s.store.ClearDraft(ctx); err != nil {
		s.state = s.beforeDiscard
		return err
	}
	s.draft = models.Draft{}
	s.state = StateClosed
	return nil
}

// ApplyFormat runs a toolbar action on the content selection and returns
// the new cursor position. Selection and cursor are counted in UTF-16 code
// units, as a browser textarea reports them.
func (s *Session) ApplyFormat(action Action, start, end int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content := s.draft.Content
	cursor, err := s.applyFormatLocked(action, RuneOffset(content, start), RuneOffset(content, end))
	if err != nil {
		return 0, err
	}
	return UTF16Offset(s.draft.Content, cursor), nil
}

func (s *Session) applyFormatLocked(action Action, start, end int) (int, error) {
	if s.state.Done() {
		return 0, ErrSessionDone
	}

	content, cursor, err := Format(s.draft.Content, start, end, action)
	if err != nil {
		return 0, err
	}
	s.draft.Content = content
	s.touchLocked()
	return cursor, nil
}

// Shortcut handles ctrl/cmd + key in the content area: b and i format the
// selection, s saves. Offsets are UTF-16 code units. handled is false for
// keys without a binding.
func (s *Session) Shortcut(ctx context.Context, key string, start, end int) (cursor int, handled bool, err error) {
	switch strings.ToLower(key) {
	case "b":
		cursor, err = s.ApplyFormat(ActionBold, start, end)
		return cursor, true, err
	case "i":
		cursor, err = s.ApplyFormat(ActionItalic, start, end)
		return cursor, true, err
	case "s":
		return end, true, s.SaveNow(ctx)
	}
	return 0, false, nil
}

func (s *Session) Notifications() []schedule.Notification {
	return s.notices.Active()
}

type Preview struct {
	HTML        string      `json:"html"`
	Placeholder string      `json:"placeholder,omitempty"`
	Outline     toc.Outline `json:"outline"`
}

// Preview renders the current content and its outline.
func (s *Session) Preview() (Preview, error) {
	content := s.Draft().Content
	if strings.TrimSpace(content) == "" {
		return Preview{Placeholder: previewPlaceholder, Outline: toc.Build(nil)}, nil
	}

	doc, err := s.renderer.Render([]byte(content))
	if err != nil {
		return Preview{}, err
	}
	return Preview{HTML: string(doc.HTML), Outline: toc.Build(doc.Headings)}, nil
}
