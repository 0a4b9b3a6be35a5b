package dataset

import "github.com/leengari/dataset/engine"

// WriteOption adjusts a single mutation call
type WriteOption func(*writeOptions)

type writeOptions struct {
	ensure bool
	types  map[string]engine.ColumnType
}

func applyWriteOptions(opts []WriteOption) writeOptions {
	o := writeOptions{ensure: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithColumnTypes supplies explicit types for columns this call may
// create, overriding the type resolver per column
func WithColumnTypes(types map[string]engine.ColumnType) WriteOption {
	return func(o *writeOptions) { o.types = types }
}

// WithEnsureColumns toggles on-demand column creation (on by default).
// With it off, writes touching unknown columns do not mutate the
// schema: updates report no match and inserts fail at the engine.
func WithEnsureColumns(ensure bool) WriteOption {
	return func(o *writeOptions) { o.ensure = ensure }
}

// FindOption adjusts a single Find call
type FindOption func(*findOptions)

type findOptions struct {
	limit   int
	offset  int
	window  int
	orderBy []string
}

func applyFindOptions(opts []FindOption) findOptions {
	o := findOptions{window: DefaultWindowSize, orderBy: []string{"id"}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.window <= 0 {
		o.window = DefaultWindowSize
	}
	return o
}

// Limit caps the total number of records the scan yields
func Limit(n int) FindOption {
	return func(o *findOptions) { o.limit = n }
}

// Offset skips the first n matching records
func Offset(n int) FindOption {
	return func(o *findOptions) { o.offset = n }
}

// WindowSize sets how many rows one page fetches (default 5000).
// Peak memory is bounded by one window regardless of result size.
func WindowSize(n int) FindOption {
	return func(o *findOptions) { o.window = n }
}

// OrderBy sets the sort keys; a leading '-' sorts that key descending
func OrderBy(keys ...string) FindOption {
	return func(o *findOptions) {
		if len(keys) > 0 {
			o.orderBy = keys
		}
	}
}
