package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// WriterSender writes messages to an io.Writer. It backs --dry-run.
type WriterSender struct {
	mu   sync.Mutex
	name string
	w    io.Writer
}

// NewWriterSender creates a sender writing to w.
func NewWriterSender(name string, w io.Writer) *WriterSender {
	return &WriterSender{name: name, w: w}
}

// Name identifies the sender in logs and results.
func (s *WriterSender) Name() string {
	return s.name
}

// Send writes the title line, the text and a trailing newline.
func (s *WriterSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Title != "" {
		if _, err := fmt.Fprintf(s.w, "--- %s ---\n", msg.Title); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(s.w, msg.Text); err != nil {
		return err
	}
	_, err := io.WriteString(s.w, "\n")
	return err
}
