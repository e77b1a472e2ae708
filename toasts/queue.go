// Package toasts implements the ephemeral notification queue. Any component
// may push a toast; the UI layer renders and dismisses them.
package toasts

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Toast struct {
	ID          string
	Title       string
	Description string
	Kind        Kind
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithAutoDismiss removes each toast automatically after d. Zero (the
// default) means toasts stay until dismissed.
func WithAutoDismiss(d time.Duration) QueueOption {
	return func(q *Queue) {
		q.autoDismiss = d
	}
}

// Queue is an ordered toast queue. IDs are assigned at creation and are
// unique within the session.
type Queue struct {
	autoDismiss time.Duration

	lock    sync.Mutex
	items   []Toast
	subs    map[int]chan Toast
	nextSub int
}

func NewQueue(options ...QueueOption) *Queue {
	q := &Queue{subs: make(map[int]chan Toast)}
	for _, opt := range options {
		opt(q)
	}
	return q
}

// Push appends a toast and returns its assigned ID.
func (q *Queue) Push(title, description string, kind Kind) string {
	toast := Toast{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Kind:        kind,
	}

	q.lock.Lock()
	q.items = append(q.items, toast)
	for _, ch := range q.subs {
		select {
		case ch <- toast:
		default:
		}
	}
	q.lock.Unlock()

	if q.autoDismiss > 0 {
		time.AfterFunc(q.autoDismiss, func() { q.Dismiss(toast.ID) })
	}
	return toast.ID
}

func (q *Queue) Success(title, description string) string {
	return q.Push(title, description, KindSuccess)
}

func (q *Queue) Error(title, description string) string {
	return q.Push(title, description, KindError)
}

func (q *Queue) Info(title, description string) string {
	return q.Push(title, description, KindInfo)
}

// Dismiss removes the toast with the given ID. Unknown IDs are ignored.
func (q *Queue) Dismiss(id string) {
	q.lock.Lock()
	defer q.lock.Unlock()
	for i, toast := range q.items {
		if toast.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// List returns the queued toasts in creation order.
func (q *Queue) List() []Toast {
	q.lock.Lock()
	defer q.lock.Unlock()
	items := make([]Toast, len(q.items))
	copy(items, q.items)
	return items
}

// Subscribe delivers every pushed toast to the returned channel until the
// cancel function is called. Slow receivers miss toasts rather than block
// the pusher.
func (q *Queue) Subscribe() (<-chan Toast, func()) {
	q.lock.Lock()
	defer q.lock.Unlock()

	id := q.nextSub
	q.nextSub++
	ch := make(chan Toast, 16)
	q.subs[id] = ch

	return ch, func() {
		q.lock.Lock()
		defer q.lock.Unlock()
		delete(q.subs, id)
	}
}
