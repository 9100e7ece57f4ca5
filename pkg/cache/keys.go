package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a layout by the hash of its input frames and the
	// parameters it was computed with.
	LayoutKey(framesHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout parameters that affect the result.
type LayoutKeyOpts struct {
	ContainerWidth  int  `json:"w"`
	MaxRowHeight    int  `json:"h"`
	Spacing         int  `json:"s"`
	JustifyTrailing bool `json:"jt,omitempty"`
}

// ArtifactKeyOpts are the render options that affect the output bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Style     string `json:"style,omitempty"`
	Captions  bool   `json:"captions,omitempty"`
	Images    bool   `json:"images,omitempty"`
	ImageBase string `json:"image_base,omitempty"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(framesHash string, opts LayoutKeyOpts) string {
	return "layout:" + digest(framesHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return "artifact:" + digest(layoutHash, opts)
}

// Prefixed namespaces every key of inner with prefix, so several
// deployments can share one Redis. A nil inner uses [DefaultKeyer]; an
// empty prefix returns inner as is.
func Prefixed(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	if prefix == "" {
		return inner
	}
	return prefixed{inner: inner, prefix: prefix}
}

type prefixed struct {
	inner  Keyer
	prefix string
}

func (p prefixed) LayoutKey(framesHash string, opts LayoutKeyOpts) string {
	return p.prefix + p.inner.LayoutKey(framesHash, opts)
}

func (p prefixed) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return p.prefix + p.inner.ArtifactKey(layoutHash, opts)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the hex SHA-256 of the JSON encoding of v.
func HashJSON(v any) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(v); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// digest hashes parts as a stream of JSON values. Every part here is a
// string or a plain struct, so encoding cannot fail.
func digest(parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
