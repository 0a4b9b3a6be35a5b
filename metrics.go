package dataset

import "github.com/prometheus/client_golang/prometheus"

var RowsInserted = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dataset",
	Subsystem: "table",
	Name:      "rows_inserted",
}, []string{"table"})

var RowsUpdated = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dataset",
	Subsystem: "table",
	Name:      "rows_updated",
}, []string{"table"})

var RowsDeleted = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dataset",
	Subsystem: "table",
	Name:      "rows_deleted",
}, []string{"table"})

var ColumnsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dataset",
	Subsystem: "table",
	Name:      "columns_created",
}, []string{"table"})

var IndexCreations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dataset",
	Subsystem: "table",
	Name:      "index_creations",
}, []string{"table", "result"})

var ScanPages = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dataset",
	Subsystem: "table",
	Name:      "scan_pages",
}, []string{"table"})

// Collectors returns every metric of this package for registration
// with the caller's registry; nothing is registered by default.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RowsInserted, RowsUpdated, RowsDeleted,
		ColumnsCreated, IndexCreations, ScanPages,
	}
}
