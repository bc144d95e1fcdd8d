package schedule

import (
	"sync"
	"time"
)

type Notification struct {
	ID      int       `json:"id"`
	Message string    `json:"message"`
	Error   bool      `json:"error"`
	Shown   time.Time `json:"shown"`
}

// Notifier keeps transient messages visible for a fixed duration.
type Notifier struct {
	clock    Clock
	duration time.Duration

	mu     sync.Mutex
	nextID int
	active []Notification
}

func NewNotifier(clock Clock, duration time.Duration) *Notifier {
	return &Notifier{clock: clock, duration: duration}
}

func (n *Notifier) Show(message string) Notification {
	return n.push(message, false)
}

func (n *Notifier) ShowError(message string) Notification {
	return n.push(message, true)
}

func (n *Notifier) push(message string, isErr bool) Notification {
	n.mu.Lock()
	n.nextID++
	note := Notification{ID: n.nextID, Message: message, Error: isErr, Shown: n.clock.Now()}
	n.active = append(n.active, note)
	n.mu.Unlock()

	n.clock.AfterFunc(n.duration, func() { n.dismiss(note.ID) })
	return note
}

// Active returns the notifications still on screen, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.active))
	copy(out, n.active)
	return out
}

func (n *Notifier) dismiss(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, note := range n.active {
		if note.ID == id {
			n.active = append(n.active[:i], n.active[i+1:]...)
			return
		}
	}
}
