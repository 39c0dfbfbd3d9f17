package plugin

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Descriptor is the outcome of discovering one plugin directory. When
// the manifest failed to parse, Manifest is nil and Err carries the
// reason; the descriptor is still returned so the failure can be
// reported at load time.
type Descriptor struct {
	// Name is the directory name, which is also the declared package
	// name for a valid plugin.
	Name string

	// Path is the absolute plugin directory.
	Path string

	// Manifest is the validated manifest, nil when Err is set.
	Manifest *Manifest

	// Err records a manifest failure found during discovery.
	Err error
}

// Discovery scans the plugins root for installed packages.
type Discovery struct {
	root   string
	logger *zap.Logger
}

// NewDiscovery creates a discovery over the plugins root directory.
func NewDiscovery(root string, logger *zap.Logger) *Discovery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discovery{root: root, logger: logger}
}

// Discover returns a descriptor for every directory under the root
// whose name carries the plugin prefix, sorted by name. No plugin code
// is executed: manifests are parsed and validated, and a bad manifest
// is recorded on its descriptor rather than aborting the scan. An
// absent root yields no descriptors.
func (d *Discovery) Discover() []*Descriptor {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if !os.IsNotExist(err) {
			d.logger.Warn("read plugins dir", zap.String("dir", d.root), zap.Error(err))
		}
		return nil
	}

	var found []*Descriptor
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), NamePrefix) {
			continue
		}

		desc := &Descriptor{
			Name: entry.Name(),
			Path: filepath.Join(d.root, entry.Name()),
		}
		manifest, err := ParseManifest(desc.Path)
		if err != nil {
			desc.Err = err
			d.logger.Warn("plugin manifest rejected",
				zap.String("plugin", desc.Name), zap.Error(err))
		} else {
			desc.Manifest = manifest
		}
		found = append(found, desc)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found
}
