package source

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/httputil"
	"github.com/matzehuels/justgrid/pkg/layout"
)

// RemoteSource reads frames from a manifest served over HTTP. Entries must
// carry their own width and height since remote images are never probed.
type RemoteSource struct {
	url     string
	fetcher *httputil.Fetcher
}

// NewRemoteSource returns a source for the manifest at rawURL. A nil
// fetcher uses httputil defaults.
func NewRemoteSource(rawURL string, fetcher *httputil.Fetcher) *RemoteSource {
	if fetcher == nil {
		fetcher = httputil.NewFetcher()
	}
	return &RemoteSource{url: rawURL, fetcher: fetcher}
}

// Frames implements Source.
func (s *RemoteSource) Frames(ctx context.Context) ([]layout.Frame[Item], error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse url")
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if !isManifestExt(ext) {
		return nil, errors.New(errors.ErrCodeUnsupported, "remote input must be a manifest, got %q", path.Base(u.Path))
	}

	data, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data, ext)
	if err != nil {
		return nil, err
	}
	for i, e := range m.Frames {
		if e.Width == 0 || e.Height == 0 {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "frame %d: remote manifests need width and height", i)
		}
	}
	return m.Resolve(ctx, "")
}

// Close implements Source.
func (s *RemoteSource) Close() error { return nil }

func isRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}
