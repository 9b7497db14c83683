package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ConsoleSender writes notifications to a writer, normally stdout. It is the
// zero-credential fallback so alerts are never silently lost when no external
// channel is configured.
type ConsoleSender struct {
	w io.Writer
}

// NewConsoleSender creates a ConsoleSender writing to stdout.
func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{w: os.Stdout}
}

// NewConsoleSenderTo creates a ConsoleSender writing to w.
func NewConsoleSenderTo(w io.Writer) *ConsoleSender {
	return &ConsoleSender{w: w}
}

// Send writes the notification as a single line.
func (c *ConsoleSender) Send(_ context.Context, title, message string) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", title, message); err != nil {
		return fmt.Errorf("console: write: %w", err)
	}
	return nil
}

// Name returns the sender identifier.
func (c *ConsoleSender) Name() string {
	return "console"
}
