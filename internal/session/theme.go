package session

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// RGB is an opaque color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Theme is the color the shell paints around the content. A zero Theme removes it.
type Theme struct {
	Color RGB
	Set   bool
}

var (
	// AccentColor matches the VS Code status bar
	AccentColor = lo.Must(ParseRGB("rgb(0, 122, 204)"))

	// LoginColor matches the login page background
	LoginColor = RGB{R: 255, G: 255, B: 255}

	// ThemeNone clears any painted color
	ThemeNone = Theme{}
)

// ParseRGB parses a CSS color of the form "rgb(r, g, b)" with each channel in 0..255.
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "rgb(") || !strings.HasSuffix(s, ")") {
		return RGB{}, fmt.Errorf("invalid rgb color %q", s)
	}
	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(s, "rgb("), ")"), ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("invalid rgb color %q: expected 3 channels", s)
	}

	var channels [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid rgb channel %q: %w", part, err)
		}
		if math.IsNaN(v) || v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("rgb channel %v out of range", v)
		}
		channels[i] = uint8(math.Round(v))
	}
	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// ThemeFor returns the color to paint for a loaded page.
func ThemeFor(u *url.URL) Theme {
	switch {
	case u == nil:
		return ThemeNone
	case IsLoginPage(u):
		return Theme{Color: LoginColor, Set: true}
	case u.String() == "about:blank":
		return ThemeNone
	default:
		return Theme{Color: AccentColor, Set: true}
	}
}
