package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/leengari/dataset/internal/logging"
	"github.com/leengari/dataset/memengine"

	"github.com/leengari/dataset"
)

// Config holds the demo's settings, loadable from a HuJSON file
// (JSON with comments and trailing commas)
type Config struct {
	SeqURL   string `json:"seq_url,omitempty"`
	Snapshot string `json:"snapshot,omitempty"`
	Window   int    `json:"window,omitempty"`
	Rows     int    `json:"rows,omitempty"`
	Debug    bool   `json:"debug,omitempty"`
}

func defaultConfig() Config {
	return Config{Window: 500, Rows: 2000}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return cfg, fmt.Errorf("invalid JSONC: %w", err)
	}
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

func main() {
	configPath := pflag.String("config", "", "path to a HuJSON config file")
	seqURL := pflag.String("seq-url", "", "Seq server URL for log shipping")
	snapshot := pflag.String("snapshot", "", "write an engine snapshot to this path on exit")
	window := pflag.Int("window", 0, "scan window size")
	rows := pflag.Int("rows", 0, "number of demo rows to seed")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *seqURL != "" {
		cfg.SeqURL = *seqURL
	}
	if *snapshot != "" {
		cfg.Snapshot = *snapshot
	}
	if *window > 0 {
		cfg.Window = *window
	}
	if *rows > 0 {
		cfg.Rows = *rows
	}
	if *debug {
		cfg.Debug = true
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger, closeFn := logging.SetupLogger(cfg.SeqURL, level)
	defer closeFn()
	slog.SetDefault(logger)

	slog.Info("starting dataset demo", "rows", cfg.Rows, "window", cfg.Window)

	eng := memengine.New()
	eng.SetLogger(logger)
	db := dataset.New(eng)
	db.SetLogger(logger)

	if err := runDemo(db, cfg); err != nil {
		slog.Error("demo failed", "error", err)
		closeFn()
		os.Exit(1)
	}

	if cfg.Snapshot != "" {
		if err := eng.SaveSnapshot(cfg.Snapshot); err != nil {
			slog.Error("snapshot save failed", "error", err)
			closeFn()
			os.Exit(1)
		}
		slog.Info("snapshot written", "path", cfg.Snapshot)
	}
}
