package signing

import (
	"fmt"
	"strconv"
	"strings"
)

// RecipientPalette is the fixed, ordered color pool recipients draw from.
// Assignment walks it front to back, so the same recipient list always
// produces the same colors.
var RecipientPalette = []string{
	"#D41111", "#EB4747", "#9C1616", "#E48181", "#F91F1F",
	"#D44C11", "#EB7847", "#9C3E16", "#E49F81", "#F9611F",
	"#D48611", "#EBA947", "#9C6716", "#E4BC81", "#F9A21F",
	"#D4C111", "#EBDA47", "#9C8F16", "#E4DA81", "#F9E31F",
	"#ADD411", "#CAEB47", "#819C16", "#D0E481", "#CEF91F",
	"#73D411", "#99EB47", "#599C16", "#B3E481", "#8CF91F",
	"#38D411", "#68EB47", "#319C16", "#95E481", "#4BF91F",
	"#11D425", "#47EB58", "#169C24", "#81E48B", "#1FF935",
	"#11D45F", "#47EB89", "#169C4C", "#81E4A9", "#1FF976",
	"#11D49A", "#47EBBA", "#169C74", "#81E4C6", "#1FF9B8",
	"#11D4D4", "#47EBEB", "#169C9C", "#81E4E4", "#1FF9F9",
	"#119AD4", "#47BAEB", "#16749C", "#81C6E4", "#1FB8F9",
	"#115FD4", "#4789EB", "#164C9C", "#81A9E4", "#1F76F9",
	"#1125D4", "#4758EB", "#16249C", "#818BE4", "#1F35F9",
	"#3811D4", "#6847EB", "#31169C", "#9581E4", "#4B1FF9",
	"#7311D4", "#9947EB", "#59169C", "#B281E4", "#8C1FF9",
	"#AD11D4", "#CA47EB", "#81169C", "#D081E4", "#CE1FF9",
	"#D411C1", "#EB47DA", "#9C168F", "#E481DA", "#F91FE3",
	"#D41186", "#EB47A9", "#9C1667", "#E481BC", "#F91FA2",
	"#D4114C", "#EB4778", "#9C163E", "#E4819F", "#F91F61",
}

// ColorStyle is the rendering affordance derived from a recipient color.
type ColorStyle struct {
	Ring         string `json:"ring"`
	Background   string `json:"background"`
	ContrastText string `json:"contrast_text"`
}

// ColorAssigner hands out palette colors deterministically.
type ColorAssigner struct {
	palette []string
}

// NewColorAssigner creates an assigner over the default palette.
func NewColorAssigner() *ColorAssigner {
	return &ColorAssigner{palette: RecipientPalette}
}

// Assign returns the first palette entry not present in used. When every
// entry is taken the first palette color is reused; color capacity never
// fails an assignment.
func (a *ColorAssigner) Assign(used map[string]bool) string {
	for _, c := range a.palette {
		if !used[c] {
			return c
		}
	}
	return a.palette[0]
}

// AssignFor collects the colors already held by recipients and assigns the
// next free one.
func (a *ColorAssigner) AssignFor(recipients []Recipient) string {
	used := make(map[string]bool, len(recipients))
	for _, r := range recipients {
		if r.Color != "" {
			used[r.Color] = true
		}
	}
	return a.Assign(used)
}

// StyleFor derives the ring/background/contrast-text style for a color. The
// contrast text flips between black and white on the perceived-luminance
// threshold so labels stay legible on any palette entry.
func (a *ColorAssigner) StyleFor(color string) ColorStyle {
	text := "#FFFFFF"
	if r, g, b, err := parseHexColor(color); err == nil {
		luminance := 0.299*r + 0.587*g + 0.114*b
		if luminance > 0.5 {
			text = "#000000"
		}
	}
	return ColorStyle{
		Ring:         color,
		Background:   color,
		ContrastText: text,
	}
}

// parseHexColor parses "#RRGGBB" into components in [0,1].
func parseHexColor(color string) (r, g, b float64, err error) {
	s := strings.TrimPrefix(color, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", color)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", color, err)
	}
	r = float64(v>>16&0xFF) / 255
	g = float64(v>>8&0xFF) / 255
	b = float64(v&0xFF) / 255
	return r, g, b, nil
}
