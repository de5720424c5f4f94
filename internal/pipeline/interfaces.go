package pipeline

import "context"

// Pair is a two-value feature tuple produced by a dictionary lookup.
type Pair [2]int64

// Mapping resolves an integer key to a feature pair.
type Mapping map[int64]Pair

// Dictionary provides named, read-only key→pair mappings loaded at startup.
// Implementations must be safe for concurrent use.
type Dictionary interface {
	Get(name string) (Mapping, error)
}

// QueryExecutor runs one parameterized query and returns the full result
// as a single table.
type QueryExecutor interface {
	Execute(ctx context.Context, query string, params map[string]any) (*Table, error)
}

// Transformer rewrites a raw result table into its persisted shape.
type Transformer interface {
	Transform(t *Table) (*Table, error)
}

// Storage persists tables under logical paths and reads them back.
type Storage interface {
	Write(ctx context.Context, t *Table, path string) error
	Read(ctx context.Context, paths []string) (*Table, error)
	Exists(ctx context.Context, path string) (bool, error)
}
