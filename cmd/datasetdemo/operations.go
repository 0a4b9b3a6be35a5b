package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leengari/dataset"
)

// runDemo exercises the full table surface: schema-on-write inserts,
// upserts, windowed scans, distinct, count and delete
func runDemo(db *dataset.Database, cfg Config) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(dataset.Collectors()...)

	users, err := db.Table("users")
	if err != nil {
		return err
	}

	slog.Info("=== Seeding users ===")
	for i := 0; i < cfg.Rows; i++ {
		rec := dataset.Record{
			"username": fmt.Sprintf("user%05d", i),
			"age":      20 + i%50,
			"active":   i%3 != 0,
		}
		if i%7 == 0 {
			rec["country"] = "DE" // late column, materialized on demand
		}
		if err := users.Insert(rec); err != nil {
			return err
		}
	}

	cols, err := users.Columns()
	if err != nil {
		return err
	}
	slog.Info("schema after seeding", "columns", cols)

	slog.Info("=== Upsert ===")
	if err := users.Upsert(dataset.Record{"username": "user00001", "age": 99}, []string{"username"}); err != nil {
		return err
	}
	rec, err := users.FindOne(dataset.Filter{"username": "user00001"})
	if err != nil {
		return err
	}
	slog.Info("upserted row", "username", rec["username"], "age", rec["age"])

	slog.Info("=== Windowed scan ===")
	scanned := 0
	for rec, err := range users.Find(dataset.Filter{"active": true}, dataset.WindowSize(cfg.Window)) {
		if err != nil {
			return err
		}
		_ = rec
		scanned++
	}
	slog.Info("scan finished", "matched", scanned, "window", cfg.Window)

	slog.Info("=== Distinct ===")
	ages, err := users.Distinct(dataset.Filter{"active": true}, "age")
	if err != nil {
		return err
	}
	slog.Info("distinct ages among active users", "count", len(ages))

	total, err := users.Count(nil)
	if err != nil {
		return err
	}
	slog.Info("row count", "total", total)

	slog.Info("=== Delete ===")
	deleted, err := users.Delete(dataset.Filter{"active": false})
	if err != nil {
		return err
	}
	remaining, err := users.Count(nil)
	if err != nil {
		return err
	}
	slog.Info("deleted inactive users", "deleted", deleted, "remaining", remaining)

	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			slog.Debug("metric", "name", fam.GetName(), "labels", m.GetLabel(), "value", m.GetCounter().GetValue())
		}
	}
	return nil
}
