// Package catalog holds the regex pattern catalog driving field extraction.
// Patterns are grouped by category and subcategory, ordered most specific
// first, and can be overridden from a JSON file at runtime.
package catalog

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/veille-marches/tender-cli/internal/model"
)

// catchAll never yields a capture group, so a malformed pattern degrades to
// "no extraction" for its field instead of aborting the run.
const catchAll = `(?s).*`

// Catalog is a mutable, concurrency-safe pattern registry with a compile
// cache keyed by pattern text.
type Catalog struct {
	mu       sync.RWMutex
	patterns map[string]map[string][]string
	compiled map[string]*regexp.Regexp
}

// New returns a catalog seeded with the built-in default patterns.
func New() *Catalog {
	c := &Catalog{
		patterns: make(map[string]map[string][]string, len(defaultPatterns)),
		compiled: make(map[string]*regexp.Regexp),
	}
	for cat, subs := range defaultPatterns {
		c.patterns[cat] = make(map[string][]string, len(subs))
		for sub, ps := range subs {
			c.patterns[cat][sub] = append([]string(nil), ps...)
		}
	}
	return c
}

// Patterns returns the ordered patterns for a category and subcategory.
// An empty subcategory returns every pattern of the category.
func (c *Catalog) Patterns(category, subcategory string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	subs, ok := c.patterns[category]
	if !ok {
		return nil
	}
	if subcategory != "" {
		return append([]string(nil), subs[subcategory]...)
	}
	var all []string
	for _, ps := range subs {
		all = append(all, ps...)
	}
	return all
}

// Snapshot returns a deep copy of the full pattern set, keyed by category
// then subcategory.
func (c *Catalog) Snapshot() map[string]map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]map[string][]string, len(c.patterns))
	for cat, subs := range c.patterns {
		out[cat] = make(map[string][]string, len(subs))
		for sub, ps := range subs {
			out[cat][sub] = append([]string(nil), ps...)
		}
	}
	return out
}

// FieldPatterns returns the ordered patterns for a record field, nil for
// derived-only fields.
func (c *Catalog) FieldPatterns(f model.Field) []string {
	spec := model.Spec(f)
	if spec == nil || spec.Category == "" {
		return nil
	}
	return c.Patterns(spec.Category, spec.Subcategory)
}

// Compile returns the compiled form of pattern, caching by literal text.
// Patterns compile case-insensitive, multi-line, dot-matches-newline.
// A pattern that fails to compile is replaced with a catch-all and logged.
func (c *Catalog) Compile(pattern string) *regexp.Regexp {
	c.mu.RLock()
	re, ok := c.compiled[pattern]
	c.mu.RUnlock()
	if ok {
		return re
	}

	re, err := regexp.Compile(`(?ims)` + pattern)
	if err != nil {
		zap.L().Error("catalog: pattern compile failed, using catch-all",
			zap.String("pattern", pattern), zap.Error(err))
		re = regexp.MustCompile(catchAll)
	}

	c.mu.Lock()
	c.compiled[pattern] = re
	c.mu.Unlock()
	return re
}

// ExtractField runs the field's patterns over text and returns every
// captured value in pattern priority order, trimmed, duplicates kept.
func (c *Catalog) ExtractField(text string, f model.Field) []string {
	var values []string
	for _, pattern := range c.FieldPatterns(f) {
		re := c.Compile(pattern)
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if v := firstGroup(m); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

// firstGroup returns the first non-empty capture group of a match.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g = strings.TrimSpace(g); g != "" {
			return g
		}
	}
	return ""
}

// Add appends a pattern to a category and subcategory, creating them as
// needed.
func (c *Catalog) Add(category, subcategory, pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.patterns[category] == nil {
		c.patterns[category] = make(map[string][]string)
	}
	c.patterns[category][subcategory] = append(c.patterns[category][subcategory], pattern)
	zap.L().Info("catalog: pattern added",
		zap.String("category", category), zap.String("subcategory", subcategory))
}

// Remove deletes an exact pattern from a category and subcategory.
func (c *Catalog) Remove(category, subcategory, pattern string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ps := c.patterns[category][subcategory]
	for i, p := range ps {
		if p == pattern {
			c.patterns[category][subcategory] = append(ps[:i:i], ps[i+1:]...)
			zap.L().Info("catalog: pattern removed",
				zap.String("category", category), zap.String("subcategory", subcategory))
			return true
		}
	}
	return false
}

type catalogFile struct {
	Patterns map[string]map[string][]string `json:"patterns"`
	Metadata *catalogMeta                   `json:"metadata,omitempty"`
}

type catalogMeta struct {
	Version   string `json:"version"`
	CreatedAt string `json:"created_at"`
}

// LoadFile merges patterns from a JSON catalog file over the current set.
// Categories present in the file replace the in-memory category wholesale.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrap(err, "catalog: read file")
	}
	var cf catalogFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return eris.Wrap(err, "catalog: parse file")
	}

	c.mu.Lock()
	for cat, subs := range cf.Patterns {
		c.patterns[cat] = subs
	}
	c.mu.Unlock()

	zap.L().Info("catalog: patterns loaded", zap.String("path", path))
	return nil
}

// SaveFile writes the full catalog to a JSON file.
func (c *Catalog) SaveFile(path string) error {
	c.mu.RLock()
	cf := catalogFile{
		Patterns: c.patterns,
		Metadata: &catalogMeta{
			Version:   "2.0.0",
			CreatedAt: time.Now().Format("2006-01-02"),
		},
	}
	data, err := json.MarshalIndent(cf, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return eris.Wrap(err, "catalog: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "catalog: write file")
	}
	zap.L().Info("catalog: patterns saved", zap.String("path", path))
	return nil
}
