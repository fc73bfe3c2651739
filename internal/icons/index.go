package icons

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// extPriority ranks icon formats for the same stem. Higher wins: PNG and TGA
// carry alpha, JPEG does not.
var extPriority = map[string]int{
	".jpg":  1,
	".jpeg": 1,
	".tga":  2,
	".png":  3,
}

// Index maps lowercase icon stems to filesystem paths.
type Index struct {
	entries map[string]string // stem -> full path
}

// BuildIndex scans dir recursively for PNG, TGA and JPEG files. A missing
// directory yields an empty index.
func BuildIndex(dir string) (*Index, error) {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx, nil
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extPriority[ext]
		if !ok {
			return nil
		}
		stem := stemOf(path)
		if existing, exists := idx.entries[stem]; exists && extPriority[strings.ToLower(filepath.Ext(existing))] >= rank {
			return nil
		}
		idx.entries[stem] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// ResolvePath returns the file for an icon name, or ("", false).
func (idx *Index) ResolvePath(name string) (string, bool) {
	path, ok := idx.entries[stemOf(name)]
	return path, ok
}

// Len returns the number of indexed icons.
func (idx *Index) Len() int {
	return len(idx.entries)
}

func stemOf(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
