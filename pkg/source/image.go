package source

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/layout"
)

var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

func isImageExt(ext string) bool {
	return slices.Contains(imageExts, ext)
}

// DirSource yields one frame per image file in a directory.
type DirSource struct {
	dir   string
	files []string
}

// NewDirSource returns a source for the images directly inside dir.
// Subdirectories and hidden files are ignored.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Frames lists the directory and probes every image concurrently.
func (s *DirSource) Frames(ctx context.Context) ([]layout.Frame[Item], error) {
	files := s.files
	if files == nil {
		var err error
		if files, err = listImages(s.dir); err != nil {
			return nil, err
		}
	}

	items := make([]Item, len(files))
	for i, f := range files {
		items[i] = Item{ID: itemID(f), Path: f}
	}
	return probeAll(ctx, items, func(it Item) string { return it.Path })
}

// Close implements Source.
func (s *DirSource) Close() error { return nil }

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if isImageExt(strings.ToLower(filepath.Ext(name))) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	slices.Sort(files)
	return files, nil
}

// ProbeImage reads the pixel dimensions from an image header.
func ProbeImage(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "probe %s", filepath.Base(path))
		}
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeUnsupported, err, "probe %s", filepath.Base(path))
	}
	return cfg.Width, cfg.Height, nil
}

// probeAll builds one frame per item, reading dimensions from the file at
// pathOf(item). Output order matches items.
func probeAll(ctx context.Context, items []Item, pathOf func(Item) string) ([]layout.Frame[Item], error) {
	frames := make([]layout.Frame[Item], len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0) * 2)
	for i, it := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, h, err := ProbeImage(pathOf(it))
			if err != nil {
				return err
			}
			frames[i] = layout.Frame[Item]{Width: float64(w), Height: float64(h), Payload: it}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
