// Package catalog holds the languages offered by the lookup server.
package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

type languageSource interface {
	Languages(ctx context.Context) ([]domain.Language, error)
}

// Catalog is the client's language table. Until Load succeeds it offers only
// the default language and knows no names.
type Catalog struct {
	src languageSource
	def domain.Language
	log *slog.Logger

	mu      sync.RWMutex
	options []domain.Language
	names   map[string]string
	loaded  bool
}

// New creates an unloaded Catalog.
func New(src languageSource, def domain.Language, logger *slog.Logger) *Catalog {
	return &Catalog{
		src:     src,
		def:     def,
		log:     logger.With("component", "catalog"),
		options: []domain.Language{def},
		names:   map[string]string{},
	}
}

// Load fetches the language table. On failure the previous state is kept.
func (c *Catalog) Load(ctx context.Context) error {
	langs, err := c.src.Languages(ctx)
	if err != nil {
		c.log.WarnContext(ctx, "load languages failed", slog.String("error", err.Error()))
		return err
	}

	options := make([]domain.Language, 0, len(langs)+1)
	options = append(options, c.def)
	names := make(map[string]string, len(langs)+1)
	for _, l := range langs {
		names[l.Code] = l.Name
		if l.Code == c.def.Code {
			continue
		}
		options = append(options, l)
	}
	if _, ok := names[c.def.Code]; !ok {
		names[c.def.Code] = c.def.Name
	}

	c.mu.Lock()
	c.options = options
	c.names = names
	c.loaded = true
	c.mu.Unlock()

	c.log.DebugContext(ctx, "languages loaded", slog.Int("count", len(options)))
	return nil
}

// Loaded reports whether a Load has succeeded.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Options returns the selectable languages, default first.
func (c *Catalog) Options() []domain.Language {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.options)
}

// Name returns the display name for code.
func (c *Catalog) Name(code string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[code]
	return name, ok
}

// DisplayName returns the name for code, or code itself when unknown.
func (c *Catalog) DisplayName(code string) string {
	if name, ok := c.Name(code); ok {
		return name
	}
	return code
}

// Has reports whether code is a selectable option.
func (c *Catalog) Has(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.ContainsFunc(c.options, func(l domain.Language) bool { return l.Code == code })
}
