package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/layout"
)

// Manifest describes a gallery as an ordered list of entries.
//
//	title = "Summer"
//
//	[[frames]]
//	path = "beach.jpg"
//	caption = "Low tide"
//
//	[[frames]]
//	id = "pano"
//	width = 4000
//	height = 1200
type Manifest struct {
	Title  string  `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Frames []Entry `json:"frames" yaml:"frames" toml:"frames"`
}

// Entry is one manifest frame. Width and Height may be omitted when Path
// points at an image whose header can be probed.
type Entry struct {
	Item   `yaml:",inline"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
}

// ParseManifest decodes data in the encoding named by ext (".json",
// ".yaml", ".yml" or ".toml") and validates every entry.
func ParseManifest(data []byte, ext string) (*Manifest, error) {
	var m Manifest
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".toml":
		_, err = toml.Decode(string(data), &m)
	default:
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unsupported manifest extension %q", ext)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks entry paths and links. Geometry is left to the layout
// engine so that errors carry the frame index it reports.
func (m *Manifest) Validate() error {
	for i, e := range m.Frames {
		if e.Path != "" {
			if err := errors.ValidatePath(e.Path); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}
		if err := errors.ValidateURL(e.URL); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if e.Path == "" && (e.Width == 0 || e.Height == 0) {
			return errors.New(errors.ErrCodeInvalidManifest, "frame %d: needs width and height or a path", i)
		}
	}
	return nil
}

// ManifestSource reads frames from a manifest file. Relative entry paths
// resolve against the manifest's directory.
type ManifestSource struct {
	path string
}

// NewManifestSource returns a source for the manifest at path.
func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{path: path}
}

// Frames implements Source.
func (s *ManifestSource) Frames(ctx context.Context) ([]layout.Frame[Item], error) {
	if err := errors.ValidateManifestFilename(filepath.Base(s.path)); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read manifest")
		}
		return nil, err
	}
	m, err := ParseManifest(data, filepath.Ext(s.path))
	if err != nil {
		return nil, err
	}
	return m.Resolve(ctx, filepath.Dir(s.path))
}

// Close implements Source.
func (s *ManifestSource) Close() error { return nil }

// Resolve converts entries to frames, probing the images of entries that
// lack dimensions. Paths are joined to baseDir.
func (m *Manifest) Resolve(ctx context.Context, baseDir string) ([]layout.Frame[Item], error) {
	frames := make([]layout.Frame[Item], len(m.Frames))
	var probe []Item
	var probeIdx []int
	for i, e := range m.Frames {
		it := e.Item
		if it.ID == "" {
			if it.Path != "" {
				it.ID = itemID(it.Path)
			} else {
				it.ID = fmt.Sprintf("frame-%d", i)
			}
		}
		if e.Width == 0 || e.Height == 0 {
			probe = append(probe, it)
			probeIdx = append(probeIdx, i)
			continue
		}
		frames[i] = layout.Frame[Item]{Width: e.Width, Height: e.Height, Payload: it}
	}

	if len(probe) > 0 {
		probed, err := probeAll(ctx, probe, func(it Item) string {
			return filepath.Join(baseDir, filepath.FromSlash(it.Path))
		})
		if err != nil {
			return nil, err
		}
		for j, f := range probed {
			frames[probeIdx[j]] = f
		}
	}
	return frames, nil
}
