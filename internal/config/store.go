package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// Store reads and writes the two configuration layers.
//
// Reads are tolerant: a missing, unreadable, or invalid layer degrades
// to absent with a logged warning so a broken file can never prevent
// startup. Writes operate on the raw file bytes so keys outside the
// schema survive untouched.
type Store struct {
	userPath      string
	workspacePath string
	logger        *zap.Logger
}

// NewStore creates a store over the given layer file paths.
func NewStore(userPath, workspacePath string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		userPath:      userPath,
		workspacePath: workspacePath,
		logger:        logger,
	}
}

// DefaultUserPath returns the user-global config file path.
func DefaultUserPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "hoist", "config.json")
	}
	return filepath.Join(home, ".config", "hoist", "config.json")
}

// DefaultWorkspacePath returns the workspace config file path under root.
func DefaultWorkspacePath(root string) string {
	return filepath.Join(root, ".hoist", "config.json")
}

// Path returns the file path backing a layer.
func (s *Store) Path(layer Layer) (string, error) {
	switch layer {
	case LayerUser:
		return s.userPath, nil
	case LayerWorkspace:
		return s.workspacePath, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownLayer, layer)
	}
}

// LoadLayer loads and validates a single layer. Any failure degrades to
// nil; it never returns an error to the caller.
func (s *Store) LoadLayer(layer Layer) *Document {
	m := s.loadLayerMap(layer)
	if m == nil {
		return nil
	}
	doc, err := documentFromMap(m)
	if err != nil {
		path, _ := s.Path(layer)
		s.warnLoad(layer, path, err)
		return nil
	}
	return doc
}

// loadLayerMap loads one layer as a generic tree, or nil when the layer
// is absent or invalid.
func (s *Store) loadLayerMap(layer Layer) map[string]any {
	path, err := s.Path(layer)
	if err != nil {
		s.logger.Warn("config layer skipped", zap.Error(err))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("config layer absent", zap.String("layer", layer.String()), zap.String("path", path))
		} else {
			s.warnLoad(layer, path, err)
		}
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		s.warnLoad(layer, path, fmt.Errorf("file is empty"))
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		s.warnLoad(layer, path, err)
		return nil
	}

	// Schema validation happens on the typed view; the generic tree is
	// what actually merges so unknown keys flow through.
	doc, err := documentFromMap(m)
	if err != nil {
		s.warnLoad(layer, path, err)
		return nil
	}
	if err := doc.Validate(); err != nil {
		s.warnLoad(layer, path, err)
		return nil
	}
	return m
}

func (s *Store) warnLoad(layer Layer, path string, err error) {
	lerr := &LoadError{Layer: layer, Path: path, Err: err}
	s.logger.Warn("config layer unusable, treating as absent", zap.Error(lerr))
}

// LoadMerged produces the total merged document: workspace over user
// over defaults, then the plugin-specific merge pass for the plugins
// field.
func (s *Store) LoadMerged() *Document {
	defMap, err := Defaults().toMap()
	if err != nil {
		// Defaults are compiled in; this cannot fail in practice.
		s.logger.Error("encode defaults", zap.Error(err))
		return Defaults()
	}

	userMap := s.loadLayerMap(LayerUser)
	wsMap := s.loadLayerMap(LayerWorkspace)

	merged := DeepMerge(DeepMerge(defMap, userMap), wsMap)
	doc, err := documentFromMap(merged)
	if err != nil {
		s.logger.Warn("decode merged config, using defaults", zap.Error(err))
		return Defaults()
	}

	doc.Plugins = s.mergePlugins(userMap, wsMap)
	return doc
}

// mergePlugins applies the plugin-value merge rules per plugin name,
// overriding whatever the generic merge produced.
func (s *Store) mergePlugins(userMap, wsMap map[string]any) map[string]PluginValue {
	user := s.decodePlugins(LayerUser, userMap)
	ws := s.decodePlugins(LayerWorkspace, wsMap)

	merged := make(map[string]PluginValue, len(user)+len(ws))
	for name := range user {
		merged[name] = MergePluginValue(user[name], ws[name])
	}
	for name := range ws {
		if _, done := merged[name]; !done {
			merged[name] = MergePluginValue(user[name], ws[name])
		}
	}
	return merged
}

// decodePlugins extracts the typed plugins map from a layer tree.
func (s *Store) decodePlugins(layer Layer, m map[string]any) map[string]PluginValue {
	if m == nil {
		return nil
	}
	raw, ok := m["plugins"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var plugins map[string]PluginValue
	if err := json.Unmarshal(data, &plugins); err != nil {
		s.logger.Warn("invalid plugins section, ignoring",
			zap.String("layer", layer.String()), zap.Error(err))
		return nil
	}
	return plugins
}

// Get returns the merged value at a dot-notation path.
func (s *Store) Get(dotPath string) (any, bool) {
	doc := s.LoadMerged()
	m, err := doc.toMap()
	if err != nil {
		return nil, false
	}
	return getByPath(m, dotPath)
}

// Save sets one value at a dot-notation path in a layer file. The raw,
// unvalidated file is read back so keys outside the schema are
// preserved byte for byte; only the ancestor chain of the path is
// rebuilt. Missing intermediate objects are created.
func (s *Store) Save(layer Layer, dotPath string, value any) error {
	if strings.TrimSpace(dotPath) == "" {
		return &WriteError{Layer: layer, Key: dotPath, Err: ErrEmptyPath}
	}
	path, err := s.Path(layer)
	if err != nil {
		return &WriteError{Layer: layer, Key: dotPath, Err: err}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return &WriteError{Layer: layer, Key: dotPath, Err: err}
		}
		raw = []byte("{}\n")
	}

	out, err := sjson.SetBytes(raw, dotPath, value)
	if err != nil {
		return &WriteError{Layer: layer, Key: dotPath, Err: err}
	}
	if err := s.writeFile(path, out); err != nil {
		return &WriteError{Layer: layer, Key: dotPath, Err: err}
	}
	return nil
}

// Delete removes the value at a dot-notation path in a layer file. It
// is a no-op when the file or the path does not exist.
func (s *Store) Delete(layer Layer, dotPath string) error {
	if strings.TrimSpace(dotPath) == "" {
		return &WriteError{Layer: layer, Key: dotPath, Err: ErrEmptyPath}
	}
	path, err := s.Path(layer)
	if err != nil {
		return &WriteError{Layer: layer, Key: dotPath, Err: err}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &WriteError{Layer: layer, Key: dotPath, Err: err}
	}
	if !gjson.GetBytes(raw, dotPath).Exists() {
		return nil
	}

	out, err := sjson.DeleteBytes(raw, dotPath)
	if err != nil {
		return &WriteError{Layer: layer, Key: dotPath, Err: err}
	}
	if err := s.writeFile(path, out); err != nil {
		return &WriteError{Layer: layer, Key: dotPath, Err: err}
	}
	return nil
}

// writeFile writes the whole document back, creating parent directories.
func (s *Store) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// getByPath retrieves a value from a nested map using a dot-separated path.
func getByPath(data map[string]any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		val, exists := m[part]
		if !exists {
			return nil, false
		}
		current = val
	}
	return current, true
}
