package species

import (
	"context"
	"log"

	"github.com/dekarrin/species/internal/memo"
)

// MemoStore is the counter's (key, n) -> count memoization table. The
// default, used when no WithMemoStore option is given, is an in-memory
// mutex-guarded map (NewInMemoryMemoStore); NewSQLiteMemoStore backs the
// same interface with a SQLite database for sharing counts across
// processes.
type MemoStore = memo.Store

// NewInMemoryMemoStore returns the default MemoStore.
func NewInMemoryMemoStore() MemoStore {
	return memo.NewInMemoryStore()
}

// NewSQLiteMemoStore opens (creating if necessary) a SQLite-backed
// MemoStore at path.
func NewSQLiteMemoStore(path string) (MemoStore, error) {
	return memo.NewSQLiteStore(path)
}

// ExportMemoSnapshot encodes every entry currently in store into a
// self-contained byte slice that ImportMemoSnapshot can later load into a
// fresh store, so a long count can be checkpointed and resumed.
func ExportMemoSnapshot(ctx context.Context, store MemoStore) ([]byte, error) {
	return memo.Export(ctx, store)
}

// ImportMemoSnapshot loads a snapshot produced by ExportMemoSnapshot into
// store, overwriting any existing entries for the same (rule, n) pairs.
func ImportMemoSnapshot(store MemoStore, data []byte) error {
	return memo.Import(store, data)
}

// Option configures a Grammar at construction time. The engine takes no
// environment variables, config files, or CLI flags (spec §6); tuning
// knobs that matter only to one process's run of the engine are ordinary
// Go values passed in here instead.
type Option func(*options)

type options struct {
	store  memo.Store
	logger *log.Logger
}

func defaultOptions() *options {
	return &options{
		store: memo.NewInMemoryStore(),
	}
}

// WithMemoStore swaps the counter's memo table for store, e.g. a
// SQLite-backed store from NewSQLiteMemoStore for sharing counts across
// processes. The default is an in-memory, mutex-guarded table.
func WithMemoStore(store MemoStore) Option {
	return func(o *options) { o.store = store }
}

// WithLogger enables optional trace output: Init logs one line, with the
// rule count, when the grammar becomes Ready. Valuation fixpoint
// iteration counts and memo hit/miss counts are not logged. The engine
// never logs by default; a library has no business writing to a shared
// logger unless asked to.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}
