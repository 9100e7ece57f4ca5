package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple file", "photo.jpg", false},
		{"nested", "2024/summer/beach.png", false},
		{"dots in name", "img..final.jpg", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret.jpg", true},
		{"nested traversal", "a/../../b.jpg", true},
		{"backslash", "a\\b.jpg", true},
		{"null byte", "a\x00b.jpg", true},
		{"newline", "a\nb.jpg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateManifestFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"json", "gallery.json", false},
		{"yaml", "gallery.yaml", false},
		{"yml", "gallery.yml", false},
		{"toml", "gallery.toml", false},
		{"upper ext", "GALLERY.JSON", false},

		{"empty", "", true},
		{"with path /", "path/to/gallery.json", true},
		{"with path \\", "path\\gallery.json", true},
		{"hidden file", ".gallery.json", true},
		{"unknown ext", "gallery.txt", true},
		{"no ext", "gallery", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateManifestFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"https://example.com/a.jpg", false},
		{"http://example.com", false},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range ValidFormats {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) error = %v", f, err)
		}
	}
	for _, f := range []string{"", "png", "SVG", "pdf"} {
		err := ValidateFormat(f)
		if !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) = %v, want %s", f, err, ErrCodeInvalidFormat)
		}
	}
}
