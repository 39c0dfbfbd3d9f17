package action

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// scriptExt is the only file extension the loaders consider.
const scriptExt = ".lua"

// ListFiles returns the Lua files directly inside dir, sorted by name.
// Subdirectories are not descended into. An absent or unreadable
// directory yields an empty slice: a missing action directory is the
// normal state for most workspaces.
func ListFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), scriptExt) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files
}
