package errors

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

const maxPathLength = 500

// pathRules are checked in order; the first failing rule names the error.
var pathRules = []struct {
	bad func(string) bool
	msg string
}{
	{func(p string) bool { return p == "" }, "path cannot be empty"},
	{func(p string) bool { return len(p) > maxPathLength }, "path too long"},
	{func(p string) bool { return strings.IndexFunc(p, unicode.IsControl) >= 0 }, "path contains control characters"},
	{func(p string) bool { return strings.HasPrefix(p, "/") }, "path must be relative"},
	{func(p string) bool { return strings.Contains(p, `\`) }, "path cannot contain backslashes"},
	{func(p string) bool { return slices.Contains(strings.Split(p, "/"), "..") }, "path cannot leave the manifest directory"},
}

// ValidatePath checks a frame path from a manifest. Paths are slash
// separated, relative and may not climb out of the manifest directory.
func ValidatePath(path string) error {
	for _, r := range pathRules {
		if r.bad(path) {
			return New(ErrCodeInvalidPath, "%s: %q", r.msg, truncate(path, 64))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ManifestExtensions lists the manifest encodings the sources decode.
var ManifestExtensions = []string{".json", ".yaml", ".yml", ".toml"}

// ValidateManifestFilename checks that filename is a visible basename with
// a manifest extension.
func ValidateManifestFilename(filename string) error {
	switch {
	case filename == "":
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	case strings.ContainsAny(filename, `/\`):
		return New(ErrCodeInvalidManifest, "manifest filename %q contains a path separator", filename)
	case strings.HasPrefix(filename, "."):
		return New(ErrCodeInvalidManifest, "manifest filename %q is hidden", filename)
	}
	if ext := strings.ToLower(filepath.Ext(filename)); !slices.Contains(ManifestExtensions, ext) {
		return New(ErrCodeInvalidManifest, "manifest extension %q not one of %s",
			ext, strings.Join(ManifestExtensions, ", "))
	}
	return nil
}

// ValidateURL accepts an empty link or an http(s) URL.
func ValidateURL(rawURL string) error {
	if rawURL == "" || strings.HasPrefix(rawURL, "https://") || strings.HasPrefix(rawURL, "http://") {
		return nil
	}
	return New(ErrCodeInvalidInput, "link %q must use http or https", truncate(rawURL, 64))
}

// ValidFormats lists the output formats the renderer can produce.
var ValidFormats = []string{"svg", "html", "json"}

// ValidateFormat checks that format names a supported output format.
func ValidateFormat(format string) error {
	if slices.Contains(ValidFormats, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)",
		format, strings.Join(ValidFormats, ", "))
}
