package frontend

import (
	"fmt"
	"strings"

	"github.com/janpfeifer/GoSet/internal/game"
)

// Card dimensions, in SVG user units.
const (
	cardWidth    = 120
	cardHeight   = 180
	symbolWidth  = 80
	symbolHeight = 36
	symbolGap    = 12
)

// Border colors of a card.
const (
	borderNone     = "#c8c8c8"
	borderSelected = "#f9a825"
	borderMatch    = "#2e7d32"
	borderMismatch = "#c62828"
	borderHint     = "#8e24aa"
)

// cardBorder returns the border color and width of an open card.
// A full trio shows whether it is a match, as long as it stays selected.
func cardBorder(c game.OpenCard, threeSelected, selectedMatch, hinted bool) (string, int) {
	switch {
	case c.Selected && threeSelected && selectedMatch:
		return borderMatch, 5
	case c.Selected && threeSelected:
		return borderMismatch, 5
	case c.Selected:
		return borderSelected, 5
	case hinted:
		return borderHint, 4
	}
	return borderNone, 2
}

// symbolPath returns the SVG element for one shape with its top-left corner at (x, y).
func symbolPath(shape Shape, x, y float64, fill, stroke string) string {
	w, h := float64(symbolWidth), float64(symbolHeight)
	style := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="2.5"`, fill, stroke)
	switch shape {
	case Diamond:
		return fmt.Sprintf(`<path d="M %.1f %.1f L %.1f %.1f L %.1f %.1f L %.1f %.1f Z" %s />`,
			x, y+h/2, x+w/2, y, x+w, y+h/2, x+w/2, y+h, style)
	case Oval:
		return fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" %s />`,
			x, y, w, h, h/2, style)
	default:
		return fmt.Sprintf(`<path d="M %.1f %.1f C %.1f %.1f %.1f %.1f %.1f %.1f S %.1f %.1f %.1f %.1f `+
			`C %.1f %.1f %.1f %.1f %.1f %.1f S %.1f %.1f %.1f %.1f Z" %s />`,
			x+4, y+h*0.7,
			x+w*0.2, y-h*0.2, x+w*0.45, y+h*0.5, x+w*0.7, y+h*0.15,
			x+w*1.05, y+h*0.1, x+w-4, y+h*0.3,
			x+w*0.8, y+h*1.2, x+w*0.55, y+h*0.5, x+w*0.3, y+h*0.85,
			x-w*0.05, y+h*0.9, x+4, y+h*0.7,
			style)
	}
}

// cardSVG renders a card as a standalone SVG document.
// id must be unique in the page, it names the stripes pattern.
func cardSVG(id string, c game.Card, border string, borderWidth int) string {
	shape := ShapeOf(c.Shape)
	color := ColorOf(c.Color).CSS
	n := NumShapesOf(c.Count)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %[1]d %[2]d" class="card-svg" role="img" aria-label="%[3]s">`,
		cardWidth, cardHeight, Describe(c))

	fill := color
	switch ShadingOf(c.Shading) {
	case Outline:
		fill = "none"
	case Striped:
		patternID := "stripes-" + id
		fmt.Fprintf(&sb, `<defs><pattern id="%s" width="6" height="6" patternUnits="userSpaceOnUse">`+
			`<line x1="0" y1="0" x2="0" y2="6" stroke="%s" stroke-width="2" /></pattern></defs>`, patternID, color)
		fill = fmt.Sprintf("url(#%s)", patternID)
	}

	fmt.Fprintf(&sb, `<rect x="3" y="3" width="%d" height="%d" rx="12" fill="white" stroke="%s" stroke-width="%d" />`,
		cardWidth-6, cardHeight-6, border, borderWidth)

	total := n*symbolHeight + (n-1)*symbolGap
	x := float64(cardWidth-symbolWidth) / 2
	y := float64(cardHeight-total) / 2
	for range n {
		sb.WriteString(symbolPath(shape, x, y, fill, color))
		y += symbolHeight + symbolGap
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}
