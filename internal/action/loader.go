package action

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cbarrett/hoist/internal/i18n"
	"github.com/cbarrett/hoist/internal/script"
)

// Loader turns Lua action files into records and feeds their inline
// translations to the catalog.
type Loader struct {
	catalog *i18n.Catalog
	logger  *zap.Logger
}

// NewLoader creates a loader registering translations into catalog.
func NewLoader(catalog *i18n.Catalog, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{catalog: catalog, logger: logger}
}

// LoadDir loads every Lua file in dir under the given source. A file
// that fails to load is logged and skipped; the rest of the directory
// still loads. An absent directory yields no records.
func (l *Loader) LoadDir(dir, source string) []*Record {
	var records []*Record
	for _, path := range ListFiles(dir) {
		rec, err := l.LoadFile(path, source)
		if err != nil {
			l.logger.Warn("skipping action file",
				zap.String("path", path),
				zap.String("source", source),
				zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records
}

// LoadFile loads a single action file. The name defaults to the file
// name when the script declares none, and must match the action name
// charset either way. Inline translations are registered in the
// catalog under the action's name.
func (l *Loader) LoadFile(path, source string) (*Record, error) {
	loaded, err := script.LoadAction(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	name := loaded.Name
	if name == "" {
		name = NameFromFile(path)
	}
	if !ValidName(name) {
		loaded.Close()
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %q", ErrInvalidName, name)}
	}

	category := loaded.Category
	if category == "" {
		// plugin actions group under their plugin unless self-declared
		if _, fromPlugin := ParsePluginSource(source); fromPlugin {
			category = source
		} else {
			category = DefaultCategory
		}
	}

	for locale, entries := range loaded.Translations {
		l.catalog.Register(locale, name, entries)
	}

	rec := &Record{
		Name:        name,
		Description: loaded.Description,
		Category:    category,
		Tags:        loaded.Tags,
		FilePath:    path,
		Source:      source,
		Run:         loaded.Run,
		close:       loaded.Close,
	}
	if loaded.HasDescribe {
		rec.DescribeFn = loaded.Describe
	}
	return rec, nil
}
