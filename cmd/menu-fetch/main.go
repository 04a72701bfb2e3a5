// Command menu-fetch downloads the live menu, validates it, and writes a
// local snapshot the API server can use as its second catalog tier when the
// remote endpoint is down. Snapshots ending in .gz are written compressed.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/voice-order-api/internal/domain/catalog"
)

const maxMenuBytes = 4 << 20

func main() {
	var (
		menuURL string
		out     string
		timeout time.Duration
	)

	flag.StringVar(&menuURL, "menu-url", "", "remote menu URL (or MENU_URL env)")
	flag.StringVar(&out, "out", "menu_categorized.json", "snapshot output path; .gz writes gzip")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "fetch timeout")
	flag.Parse()

	if menuURL == "" {
		menuURL = os.Getenv("MENU_URL")
	}
	if menuURL == "" {
		slog.Error("menu URL is required: set --menu-url or MENU_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	if err := run(ctx, menuURL, out); err != nil {
		slog.Error("menu fetch failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("menu snapshot written", slog.String("path", out))
}

func run(ctx context.Context, menuURL, out string) error {
	data, err := fetch(ctx, menuURL)
	if err != nil {
		return errors.Wrap(err, "fetch menu")
	}

	// Validate before writing: a snapshot that cannot feed the catalog is
	// worse than no snapshot, since the server would burn its local tier on it.
	menu, err := catalog.ParseMenu(data)
	if err != nil {
		return errors.Wrap(err, "validate menu")
	}
	items := catalog.Flatten(menu)
	if len(items) == 0 {
		return errors.New("menu has no items")
	}

	slog.Info("menu validated",
		slog.Int("categories", len(menu.Categories)),
		slog.Int("items", len(items)),
	)

	return writeSnapshot(out, data)
}

func fetch(ctx context.Context, menuURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, menuURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMenuBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return data, nil
}

// writeSnapshot writes atomically: temp file in the target directory, then
// rename, so a crash mid-write never leaves a truncated snapshot behind.
func writeSnapshot(out string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(out), ".menu-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	var w io.Writer = tmp
	var gz *pgzip.Writer
	if strings.HasSuffix(out, ".gz") {
		gz = pgzip.NewWriter(tmp)
		w = gz
	}

	if _, err := w.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write snapshot")
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			_ = tmp.Close()
			return errors.Wrap(err, "flush gzip")
		}
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}

	return errors.Wrap(os.Rename(tmp.Name(), out), "rename snapshot")
}
