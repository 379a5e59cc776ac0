// Package notify holds the notification sinks the session store reports
// operation outcomes to (the "toast" banners of a UI).
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/kodjobs/internal/logging"
)

// Variant styles a notification.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a short user-facing message.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier delivers notifications. Calls are fire-and-forget: implementations
// must not block for long and have no way to report failure.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Success builds a default-variant notification.
func Success(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDefault}
}

// Failure builds a destructive-variant notification.
func Failure(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDestructive}
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Notification) {
	if msg.Variant == VariantDestructive {
		n.log.Warn(ctx, msg.Title, "description", msg.Description)
		return
	}
	n.log.Info(ctx, msg.Title, "description", msg.Description)
}

// WriterNotifier prints one banner line per notification, e.g.
//
//	[!] Login failed: Invalid email or password
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(_ context.Context, msg Notification) {
	mark := "[*]"
	if msg.Variant == VariantDestructive {
		mark = "[!]"
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s %s: %s\n", mark, msg.Title, msg.Description)
}

// Recorder keeps every notification in memory. Useful in tests and for a
// "recent messages" view.
type Recorder struct {
	mu   sync.Mutex
	msgs []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return Notification{}, false
	}
	return r.msgs[len(r.msgs)-1], true
}

// Multi fans a notification out to several sinks in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, s := range m {
		s.Notify(ctx, n)
	}
}
