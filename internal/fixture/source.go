package fixture

import (
	"errors"
	"io/fs"
	"os"
	"path"
)

// Source locates and reads the raw fixture bytes for a logical page.
type Source interface {
	// Read returns the fixture content for page, the resolved location and
	// the format ("json" or "yaml"). Missing data must wrap fs.ErrNotExist.
	Read(page string) (data []byte, location string, format string, err error)
}

// DirSource reads fixtures laid out as pages/<page>Data.<ext> under an fs.FS.
type DirSource struct {
	fsys fs.FS
	root string
}

// NewDirSource creates a DirSource rooted at dir on the local filesystem.
func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir), root: dir}
}

// NewFSSource creates a DirSource over an arbitrary fs.FS.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

var candidateExts = []struct {
	ext    string
	format string
}{
	{".json", "json"},
	{".yaml", "yaml"},
	{".yml", "yaml"},
}

// Read tries <page>Data.json, then .yaml and .yml.
func (s *DirSource) Read(page string) ([]byte, string, string, error) {
	var lastErr error
	for _, c := range candidateExts {
		rel := path.Join("pages", page+"Data"+c.ext)
		data, err := fs.ReadFile(s.fsys, rel)
		if err == nil {
			return data, s.location(rel), c.format, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, s.location(rel), c.format, err
		}
		lastErr = err
	}
	return nil, s.location(path.Join("pages", page+"Data.json")), "", lastErr
}

func (s *DirSource) location(rel string) string {
	if s.root == "" {
		return rel
	}
	return path.Join(s.root, rel)
}
