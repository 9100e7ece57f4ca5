// Package source turns galleries on disk into layout frames.
//
// # Overview
//
// A [Source] produces the ordered [layout.Frame] list the engine consumes.
// Four kinds are supported:
//
//   - [ManifestSource]: a JSON, YAML or TOML file listing frames
//   - [RemoteSource]: the same manifest formats fetched over HTTP
//   - [DirSource]: every supported image in a directory, sorted by name
//   - [PDFSource]: one frame per page of a PDF document
//
// [Open] picks the right kind from the path. Image dimensions are read from
// file headers only; pixel data is never decoded.
//
//	src, err := source.Open("photos/")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	frames, err := src.Frames(ctx)
package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/httputil"
	"github.com/matzehuels/justgrid/pkg/layout"
)

// Item is the payload carried by every frame a source produces.
type Item struct {
	ID      string `json:"id" yaml:"id" toml:"id"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty" toml:"caption,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
}

// Source produces an ordered list of frames.
type Source interface {
	Frames(ctx context.Context) ([]layout.Frame[Item], error)
	Close() error
}

// Open returns the source for path: a directory becomes a [DirSource], a
// .pdf a [PDFSource] and a manifest extension a [ManifestSource]. A single
// image file is treated as a one-frame directory. An http(s) URL becomes a
// [RemoteSource].
func Open(path string) (Source, error) {
	return OpenWith(path, nil)
}

// OpenWith is Open with the fetcher used for remote manifests. A nil
// fetcher uses httputil defaults.
func OpenWith(path string, fetcher *httputil.Fetcher) (Source, error) {
	if isRemote(path) {
		return NewRemoteSource(path, fetcher), nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	if fi.IsDir() {
		return NewDirSource(path), nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return NewPDFSource(path)
	case isManifestExt(ext):
		return NewManifestSource(path), nil
	case isImageExt(ext):
		return &DirSource{files: []string{path}}, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported input %q", filepath.Base(path))
}

// Load opens path, reads all frames and closes the source.
func Load(ctx context.Context, path string) ([]layout.Frame[Item], error) {
	return LoadWith(ctx, path, nil)
}

// LoadWith is Load with the fetcher used for remote manifests.
func LoadWith(ctx context.Context, path string, fetcher *httputil.Fetcher) ([]layout.Frame[Item], error) {
	src, err := OpenWith(path, fetcher)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.Frames(ctx)
}

func isManifestExt(ext string) bool {
	switch ext {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// itemID derives a stable identifier from a file name.
func itemID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
