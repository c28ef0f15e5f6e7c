package schedule

import "context"

// EventStore is the persistence boundary for the full event collection.
// The backing store is the single source of truth: there is no caching, so
// every interaction reloads fully and every mutation writes the whole
// collection back.
type EventStore interface {
	Load(ctx context.Context) ([]Event, error)
	Save(ctx context.Context, events []Event) error
}
