package dataset

import (
	"iter"

	"github.com/google/uuid"

	"github.com/leengari/dataset/engine"
)

// DefaultWindowSize is how many rows one Find page fetches when
// WindowSize is not given
const DefaultWindowSize = 5000

// Find returns a lazy sequence of the records matching filter, sorted
// by the OrderBy keys (default "id"). The scan is windowed: it issues
// bounded selects of one window at a time, advancing the offset per
// page until a page comes back empty or the limit is reached, so peak
// memory stays at one window no matter how large the result is.
//
// Pages are fetched in increasing offset order with no snapshot
// isolation: a concurrent writer can shift rows between pages.
// Breaking out of the iteration fetches no further pages, and each
// call starts a fresh scan.
func (t *Table) Find(filter Filter, opts ...FindOption) iter.Seq2[Record, error] {
	o := applyFindOptions(opts)

	return func(yield func(Record, error) bool) {
		clause, err := t.whereClause(filter)
		if err != nil {
			yield(nil, err)
			return
		}
		order, err := t.orderBy(o.orderBy)
		if err != nil {
			yield(nil, err)
			return
		}

		scanID := uuid.NewString()
		t.db.logger.Debug("windowed scan started",
			"table", t.name, "scan_id", scanID, "window", o.window, "limit", o.limit)

		for page := 0; ; page++ {
			qlimit := o.window
			if o.limit > 0 {
				qlimit = min(o.limit-page*o.window, o.window)
				if qlimit <= 0 {
					return
				}
			}

			stmt := &engine.SelectStatement{
				Table:   t.name,
				Where:   clause,
				OrderBy: order,
				Limit:   qlimit,
				Offset:  o.offset + page*o.window,
			}

			n := 0
			for row, err := range t.db.engine.Query(stmt) {
				if err != nil {
					yield(nil, err)
					return
				}
				n++
				if !yield(Record(row), nil) {
					return
				}
			}
			ScanPages.WithLabelValues(t.name).Inc()
			t.db.logger.Debug("scan page fetched", "table", t.name, "scan_id", scanID, "page", page, "rows", n)

			if n == 0 {
				return
			}
		}
	}
}

// All iterates every row in default order; shorthand for Find with no
// filter
func (t *Table) All() iter.Seq2[Record, error] {
	return t.Find(nil)
}

// FindOne returns the first record matching filter, or ErrNotFound.
// There is no sentinel record value: absence is always the error.
func (t *Table) FindOne(filter Filter) (Record, error) {
	for rec, err := range t.Find(filter, Limit(1)) {
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
	return nil, ErrNotFound
}
