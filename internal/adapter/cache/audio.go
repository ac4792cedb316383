// Package cache stores synthesized pronunciations in an embedded badger store
// so repeated requests for the same text skip the TTS upstream.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/metrics"
)

// AudioCache is a TTL-bounded key/value store of MP3 clips.
type AudioCache struct {
	db  *badger.DB
	ttl time.Duration
	log *slog.Logger
}

// Open opens (or creates) the cache directory at path. A zero ttl keeps
// entries forever.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*AudioCache, error) {
	return open(badger.DefaultOptions(path).WithLogger(nil), ttl, logger)
}

// OpenInMemory opens a cache that lives only as long as the process.
func OpenInMemory(ttl time.Duration, logger *slog.Logger) (*AudioCache, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil), ttl, logger)
}

func open(opts badger.Options, ttl time.Duration, logger *slog.Logger) (*AudioCache, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: open badger: %w", err)
	}
	return &AudioCache{db: db, ttl: ttl, log: logger.With("adapter", "cache")}, nil
}

// Key builds the cache key for text spoken in lang. Texts that differ only
// in case or repeated spaces share a key.
func Key(lang, text string) []byte {
	return []byte("tts:" + lang + ":" + domain.NormalizeText(text))
}

// Get returns the cached clip. ok is false on a miss.
func (c *AudioCache) Get(ctx context.Context, lang, text string) (audio []byte, ok bool, err error) {
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(Key(lang, text))
		if err != nil {
			return err
		}
		audio, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("cache: get: %w", err)
	}

	metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
	c.log.DebugContext(ctx, "cache hit", slog.String("lang", lang), slog.Int("bytes", len(audio)))
	return audio, true, nil
}

// Set stores audio under (lang, text).
func (c *AudioCache) Set(_ context.Context, lang, text string, audio []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(Key(lang, text), audio)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

// RunGC reclaims value-log space every interval until ctx is cancelled.
func (c *AudioCache) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				err := c.db.RunValueLogGC(0.5)
				if err == nil {
					continue
				}
				if !errors.Is(err, badger.ErrNoRewrite) {
					c.log.WarnContext(ctx, "cache gc failed", slog.String("error", err.Error()))
				}
				break
			}
		}
	}
}

// Ping reports whether the store is open. It backs the readiness probe.
func (c *AudioCache) Ping(context.Context) error {
	if c.db.IsClosed() {
		return errors.New("cache: closed")
	}
	return nil
}

// Close flushes and closes the store.
func (c *AudioCache) Close() error {
	return c.db.Close()
}
