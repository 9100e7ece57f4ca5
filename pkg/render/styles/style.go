// Package styles defines how placed gallery frames are drawn in SVG.
package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/justgrid/pkg/errors"
)

// Style controls the appearance of frames and captions.
type Style interface {
	// Name is the identifier accepted by [ByName].
	Name() string
	// RenderDefs writes SVG <defs> content and a background.
	RenderDefs(buf *bytes.Buffer, width, height int)
	// RenderFrame writes the shape (and image, if any) of one frame.
	RenderFrame(buf *bytes.Buffer, f Frame)
	// RenderCaption writes the caption of one frame.
	RenderCaption(buf *bytes.Buffer, f Frame)
}

// Frame contains all data needed to draw a single frame.
type Frame struct {
	ID         string
	Caption    string
	Href       string // Image reference, empty for placeholders
	URL        string // Optional link target
	X, Y, W, H float64
	Row        int
}

// Names lists the built-in styles.
var Names = []string{"simple", "filled"}

// ByName returns the built-in style called name.
func ByName(name string) (Style, error) {
	switch name {
	case "", "simple":
		return Simple{}, nil
	case "filled":
		return Filled{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want one of %s)",
		name, strings.Join(Names, ", "))
}

// ValidName reports whether name is a built-in style.
func ValidName(name string) bool { return slices.Contains(Names, name) }

const (
	captionSize    = 12.0
	captionPadding = 6.0
)

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func WrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `  <a href="%s" target="_blank">`, EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("</a>\n")
	}
}

// TruncateCaption shortens s so that it fits in width at the caption font
// size.
func TruncateCaption(s string, width float64) string {
	maxChars := int((width - 2*captionPadding) / (captionSize * 0.55))
	r := []rune(s)
	if maxChars < 3 {
		return ""
	}
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

func renderImage(buf *bytes.Buffer, f Frame) {
	if f.Href == "" {
		return
	}
	fmt.Fprintf(buf, `  <image href="%s" x="%.0f" y="%.0f" width="%.0f" height="%.0f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
		EscapeXML(f.Href), f.X, f.Y, f.W, f.H)
}

func renderCaption(buf *bytes.Buffer, f Frame, fill string) {
	text := TruncateCaption(f.Caption, f.W)
	if text == "" || f.H < captionSize+2*captionPadding {
		return
	}
	fmt.Fprintf(buf, `  <text class="caption" x="%.1f" y="%.1f" font-size="%.0f" fill="%s">%s</text>`+"\n",
		f.X+captionPadding, f.Y+f.H-captionPadding, captionSize, fill, EscapeXML(text))
}
