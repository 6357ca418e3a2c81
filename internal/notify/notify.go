// Package notify delivers short user-facing messages ("toasts").
package notify

import "sync"

// Kind is the severity of a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Message is one notification
type Message struct {
	Kind Kind
	Text string
}

// Notifier shows transient messages to the user
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Flash queues messages until the next page render drains them
type Flash struct {
	mu       sync.Mutex
	messages []Message
}

// NewFlash creates an empty flash queue
func NewFlash() *Flash {
	return &Flash{}
}

func (f *Flash) Success(msg string) { f.push(KindSuccess, msg) }
func (f *Flash) Error(msg string)   { f.push(KindError, msg) }
func (f *Flash) Info(msg string)    { f.push(KindInfo, msg) }

func (f *Flash) push(kind Kind, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, Message{Kind: kind, Text: text})
}

// Drain returns and clears the queued messages
func (f *Flash) Drain() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.messages
	f.messages = nil
	return out
}

// Nop discards every message
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}
func (Nop) Info(string)    {}
