package icons

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Extensions lists the image formats probed for a resource, most preferred first.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// AssetStore finds and copies icon images.
type AssetStore struct {
	fs afero.Fs
}

// NewAssetStore constructs an AssetStore over fs.
func NewAssetStore(fs afero.Fs) *AssetStore {
	return &AssetStore{fs: fs}
}

// Find returns the path of the first regular file <dir>/<name><ext>, trying
// Extensions in order.
func (s *AssetStore) Find(dir, name string) (string, bool) {
	for _, ext := range Extensions {
		p := filepath.Join(dir, name+ext)
		info, err := s.fs.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// Exists reports whether path is a regular file.
func (s *AssetStore) Exists(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Copy duplicates src as <destDir>/<name><ext of src>, replacing any
// existing file, and returns the destination path.
//
// Precondition: src must be a readable file; destDir must exist.
func (s *AssetStore) Copy(src, destDir, name string) (string, error) {
	data, err := afero.ReadFile(s.fs, src)
	if err != nil {
		return "", fmt.Errorf("reading asset %s: %w", src, err)
	}
	dest := filepath.Join(destDir, name+filepath.Ext(src))
	if err := afero.WriteFile(s.fs, dest, data, 0644); err != nil {
		return "", fmt.Errorf("writing asset %s: %w", dest, err)
	}
	return dest, nil
}
