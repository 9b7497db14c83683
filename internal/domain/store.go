package domain

import "context"

// WatchStore persists the user's watch ranges, keyed by asset symbol. The
// raw "<low>-<high>" text is stored as entered; parsing happens at evaluation
// time so a malformed range survives restarts exactly as the user typed it.
type WatchStore interface {
	// Set stores the range text for a symbol. An empty text removes the watch.
	Set(ctx context.Context, symbol, rangeText string) error
	// Get returns the range text for a symbol, or ErrNotFound.
	Get(ctx context.Context, symbol string) (string, error)
	// All returns every configured watch as symbol → range text.
	All(ctx context.Context) (map[string]string, error)
	// Delete removes the watch for a symbol. Deleting a missing watch is a no-op.
	Delete(ctx context.Context, symbol string) error
}

// TaskStore persists the to-do list as a single record, replaced wholesale on
// every change.
type TaskStore interface {
	Save(ctx context.Context, tasks []Task) error
	Load(ctx context.Context) ([]Task, error)
}
