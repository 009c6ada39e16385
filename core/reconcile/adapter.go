package reconcile

import "context"

// Source produces a keyed snapshot of a store.
type Source interface {
	// FetchAll loads every managed row and returns it as a collection.
	// Implementations must fail on duplicate keys rather than return a
	// partial collection.
	FetchAll(ctx context.Context) (*Collection, error)
}

// Sink applies a change set to a store.
type Sink interface {
	// Apply executes deletes, then updates, then inserts inside a single
	// transaction. On failure nothing is applied and a *StoreWriteError is
	// returned.
	Apply(ctx context.Context, cs *ChangeSet) error
}

// Store is both ends of the database side.
type Store interface {
	Source
	Sink
}
