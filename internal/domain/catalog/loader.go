package catalog

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source labels report which tier produced the active catalog.
const (
	// SourceLive means the catalog came from the remote menu URL.
	SourceLive = "live"
	// SourceCategorized means the catalog came from the local snapshot file.
	SourceCategorized = "categorized"
	// SourceFallback means the embedded catalog was used because no higher
	// tier was configured.
	SourceFallback = "fallback"
	// SourceErrorFallback means the embedded catalog was used because every
	// configured higher tier failed.
	SourceErrorFallback = "error_fallback"
)

// LoaderConfig configures the tiered catalog loader.
type LoaderConfig struct {
	// MenuURL is the remote tier. Empty disables the remote fetch.
	MenuURL string
	// MenuPath is the local snapshot tier. Both plain JSON and gzipped
	// snapshots (".gz" suffix) are supported. Empty disables the tier.
	MenuPath string
	// Embedded is the final tier and must parse to a non-empty menu.
	Embedded []byte
	// HTTPTimeout bounds the remote fetch. Defaults to 10s.
	HTTPTimeout time.Duration
}

// Loader builds the catalog index from the tiered menu sources and caches it
// for the process lifetime. The build is serialized behind a single-flight
// guard: concurrent first requests share one build instead of racing on
// redundant remote fetches. The cached index is effectively immutable.
type Loader struct {
	cfg     LoaderConfig
	aliases *AliasTable
	client  *http.Client

	group singleflight.Group

	mu     sync.RWMutex
	index  *Index
	source string
}

// NewLoader creates a Loader. A nil alias table falls back to the built-in
// aliases.
func NewLoader(cfg LoaderConfig, aliases *AliasTable) *Loader {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Loader{
		cfg:     cfg,
		aliases: aliases,
		client:  &http.Client{Timeout: timeout},
	}
}

// loaded holds a build result passed through the single-flight group.
type loaded struct {
	index  *Index
	source string
}

// Index returns the catalog index, building it on first use. The returned
// index is never empty: network or parse failures at the remote and local
// tiers degrade to the embedded catalog instead of surfacing. The source
// label reports which tier produced the active catalog.
func (l *Loader) Index(ctx context.Context) (*Index, string) {
	l.mu.RLock()
	if ix := l.index; ix != nil {
		src := l.source
		l.mu.RUnlock()
		return ix, src
	}
	l.mu.RUnlock()

	v, _, _ := l.group.Do("catalog", func() (any, error) {
		// The result is cached for the process lifetime, so the build must
		// not inherit the triggering request's cancellation: an aborted first
		// request would otherwise fail the remote tier and pin the degraded
		// embedded catalog for every later caller.
		res := l.build(context.WithoutCancel(ctx))
		l.mu.Lock()
		l.index = res.index
		l.source = res.source
		l.mu.Unlock()
		return res, nil
	})
	res := v.(loaded)
	return res.index, res.source
}

// Ready reports whether a usable catalog can be produced. Used as a
// readiness check: it triggers the initial build if necessary.
func (l *Loader) Ready(ctx context.Context) error {
	ix, _ := l.Index(ctx)
	if ix.Len() == 0 {
		return errors.New("catalog index is empty")
	}
	return nil
}

// build walks the tiers in order: remote URL, local snapshot, embedded.
// Each tier is attempted only when the previous one failed or produced zero
// items. Failures are logged and swallowed; the embedded tier guarantees a
// non-empty result.
func (l *Loader) build(ctx context.Context) loaded {
	lg := zctx.From(ctx)
	degraded := false

	if l.cfg.MenuURL != "" {
		if items, err := l.fetchRemote(ctx); err != nil {
			lg.Warn("Remote menu tier failed",
				zap.String("url", l.cfg.MenuURL),
				zap.Error(err),
			)
			degraded = true
		} else if len(items) > 0 {
			lg.Info("Catalog loaded from remote menu",
				zap.String("url", l.cfg.MenuURL),
				zap.Int("items", len(items)),
			)
			return loaded{index: NewIndex(items, l.aliases), source: SourceLive}
		}
	}

	if l.cfg.MenuPath != "" {
		if items, err := l.readSnapshot(); err != nil {
			lg.Warn("Local menu tier failed",
				zap.String("path", l.cfg.MenuPath),
				zap.Error(err),
			)
			degraded = true
		} else if len(items) > 0 {
			lg.Info("Catalog loaded from local snapshot",
				zap.String("path", l.cfg.MenuPath),
				zap.Int("items", len(items)),
			)
			return loaded{index: NewIndex(items, l.aliases), source: SourceCategorized}
		}
	}

	// Embedded tier. Parse failures here are a packaging bug, but the index
	// must still never be empty, so degrade to zero items over panicking.
	source := SourceFallback
	if degraded {
		source = SourceErrorFallback
	}
	m, err := ParseMenu(l.cfg.Embedded)
	if err != nil {
		lg.Error("Embedded menu is malformed", zap.Error(err))
		return loaded{index: NewIndex(nil, l.aliases), source: source}
	}
	items := Flatten(m)
	lg.Warn("Catalog using embedded fallback", zap.Int("items", len(items)))
	return loaded{index: NewIndex(items, l.aliases), source: source}
}

func (l *Loader) fetchRemote(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.MenuURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch menu")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	m, err := ParseMenu(data)
	if err != nil {
		return nil, err
	}
	return Flatten(m), nil
}

func (l *Loader) readSnapshot() ([]Item, error) {
	f, err := os.Open(l.cfg.MenuPath)
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot")
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(l.cfg.MenuPath, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip snapshot")
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}
	m, err := ParseMenu(data)
	if err != nil {
		return nil, err
	}
	return Flatten(m), nil
}
