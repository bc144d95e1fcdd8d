package toc

// Active band bounds: a heading counts as being read once its top edge is
// below bandTopInset pixels and above bandBottomRatio of the viewport height.
const (
	bandTopInset    = 80
	bandBottomRatio = 0.2
)

// InBand reports whether a heading whose top edge sits at top (pixels from
// the viewport top) is inside the active band.
func InBand(top, viewportHeight float64) bool {
	return top >= bandTopInset && top <= viewportHeight*bandBottomRatio
}

// ClickResult tells the presentation layer what to do after an outline
// entry is clicked.
type ClickResult struct {
	ScrollTo     string `json:"scrollTo"`
	Smooth       bool   `json:"smooth"`
	CloseOverlay bool   `json:"closeOverlay"`
}

// Tracker marks the outline entry of the heading most recently scrolled into
// the active band. It observes only while attached to a detail view;
// events arriving after Detach are ignored.
type Tracker struct {
	entries  []Entry
	index    map[string]int
	active   int
	attached bool
}

func NewTracker() *Tracker {
	return &Tracker{active: -1}
}

// Attach starts observing the headings of outline, replacing any previous
// outline. No entry is active until a heading enters the band or is clicked.
func (t *Tracker) Attach(outline Outline) {
	t.entries = make([]Entry, len(outline.Entries))
	copy(t.entries, outline.Entries)
	t.index = make(map[string]int, len(t.entries))
	for i := range t.entries {
		t.entries[i].Active = false
		t.index[t.entries[i].HeadingID] = i
	}
	t.active = -1
	t.attached = true
}

// Detach stops observation and forgets the outline.
func (t *Tracker) Detach() {
	t.entries = nil
	t.index = nil
	t.active = -1
	t.attached = false
}

func (t *Tracker) Attached() bool {
	return t.attached
}

// Observe handles an intersection change for headingID. Only entering the
// band moves the active mark; it reports whether the mark changed.
func (t *Tracker) Observe(headingID string, intersecting bool) bool {
	if !t.attached || !intersecting {
		return false
	}
	return t.activate(headingID)
}

// ObserveTop handles a scroll report for headingID: top is its top edge in
// pixels from the viewport top. It is Observe with the band test applied.
func (t *Tracker) ObserveTop(headingID string, top, viewportHeight float64) bool {
	return t.Observe(headingID, InBand(top, viewportHeight))
}

// Click activates headingID right away, without waiting for the scroll to
// reach it. On viewports no wider than NarrowViewport the overlay panel is
// closed as well.
func (t *Tracker) Click(headingID string, viewportWidth int) (ClickResult, bool) {
	if !t.attached {
		return ClickResult{}, false
	}
	if _, ok := t.index[headingID]; !ok {
		return ClickResult{}, false
	}
	t.activate(headingID)
	return ClickResult{
		ScrollTo:     headingID,
		Smooth:       true,
		CloseOverlay: viewportWidth <= NarrowViewport,
	}, true
}

// Active returns the active entry, if any.
func (t *Tracker) Active() (Entry, bool) {
	if t.active < 0 {
		return Entry{}, false
	}
	return t.entries[t.active], true
}

// Entries returns a copy of the tracked outline with the active flag set.
func (t *Tracker) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Tracker) activate(headingID string) bool {
	i, ok := t.index[headingID]
	if !ok || i == t.active {
		return false
	}
	if t.active >= 0 {
		t.entries[t.active].Active = false
	}
	t.entries[i].Active = true
	t.active = i
	return true
}
