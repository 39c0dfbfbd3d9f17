package i18n

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FallbackLocale is consulted when a key is missing from the requested
// locale and its base language.
const FallbackLocale = "en"

// Catalog stores localized strings keyed by locale, namespace, and key.
// It is safe for concurrent use; plugins and actions register bundles
// while loads are in flight.
type Catalog struct {
	mu      sync.RWMutex
	locales map[string]map[string]map[string]string
	logger  *zap.Logger
}

// NewCatalog creates an empty catalog.
func NewCatalog(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		locales: make(map[string]map[string]map[string]string),
		logger:  logger,
	}
}

// Register adds entries for one locale and namespace. Existing keys are
// overwritten; registration order decides ownership, as with actions.
func (c *Catalog) Register(locale, namespace string, entries map[string]string) {
	if locale == "" || namespace == "" || len(entries) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	byNS, ok := c.locales[locale]
	if !ok {
		byNS = make(map[string]map[string]string)
		c.locales[locale] = byNS
	}
	byKey, ok := byNS[namespace]
	if !ok {
		byKey = make(map[string]string, len(entries))
		byNS[namespace] = byKey
	}
	for k, v := range entries {
		byKey[k] = v
	}
}

// LoadDir reads locale bundles from a directory into one namespace.
// Each file is named <locale>.json, <locale>.yaml, or <locale>.yml and
// holds a flat key-to-string map. A bad file is skipped with a warning;
// an absent directory is not an error.
func (c *Catalog) LoadDir(dir, namespace string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("read locales dir", zap.String("dir", dir), zap.Error(err))
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		locale := strings.TrimSuffix(name, ext)
		if locale == "" {
			continue
		}

		path := filepath.Join(dir, name)
		bundle, err := readBundle(path, ext)
		if err != nil {
			c.logger.Warn("skipping locale bundle",
				zap.String("path", path), zap.Error(err))
			continue
		}
		if bundle != nil {
			c.Register(locale, namespace, bundle)
		}
	}
}

// readBundle parses one flat locale file.
func readBundle(path, ext string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var bundle map[string]string
	switch ext {
	case ".json":
		err = json.Unmarshal(data, &bundle)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &bundle)
	default:
		return nil, nil // not a locale bundle
	}
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

// Lookup resolves a key in a namespace for a locale. Resolution tries
// the exact locale, then the base language of a regional tag, then the
// fallback locale.
func (c *Catalog) Lookup(locale, namespace, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	candidates := []string{locale}
	if base, _, ok := strings.Cut(locale, "-"); ok {
		candidates = append(candidates, base)
	}
	if locale != FallbackLocale {
		candidates = append(candidates, FallbackLocale)
	}

	for _, loc := range candidates {
		if text, ok := c.locales[loc][namespace][key]; ok {
			return text, true
		}
	}
	return "", false
}
