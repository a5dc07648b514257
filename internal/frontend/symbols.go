package frontend

import (
	"fmt"

	"github.com/janpfeifer/GoSet/internal/game"
)

// Shape drawn on a card.
type Shape int

const (
	Diamond Shape = iota
	Oval
	Squiggle
)

func (s Shape) String() string {
	switch s {
	case Diamond:
		return "diamond"
	case Oval:
		return "oval"
	case Squiggle:
		return "squiggle"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Shading of the shapes on a card.
type Shading int

const (
	Solid Shading = iota
	Outline
	Striped
)

func (s Shading) String() string {
	switch s {
	case Solid:
		return "solid"
	case Outline:
		return "outline"
	case Striped:
		return "striped"
	}
	return fmt.Sprintf("Shading(%d)", int(s))
}

// Color of the shapes on a card.
type Color struct {
	Name string
	CSS  string
}

var colors = [...]Color{
	{Name: "red", CSS: "#d32f2f"},
	{Name: "green", CSS: "#2e7d32"},
	{Name: "blue", CSS: "#1565c0"},
}

var (
	shapes    = [...]Shape{Diamond, Oval, Squiggle}
	shadings  = [...]Shading{Solid, Outline, Striped}
	numShapes = [...]int{1, 2, 3}
)

// ShapeOf returns the shape representing p.
func ShapeOf(p game.Property) Shape { return shapes[p] }

// ShadingOf returns the shading representing p.
func ShadingOf(p game.Property) Shading { return shadings[p] }

// ColorOf returns the color representing p.
func ColorOf(p game.Property) Color { return colors[p] }

// NumShapesOf returns how many shapes are drawn for p.
func NumShapesOf(p game.Property) int { return numShapes[p] }

// Describe returns a human-readable description of the card, e.g. "2 green striped ovals".
func Describe(c game.Card) string {
	n := NumShapesOf(c.Count)
	plural := ""
	if n > 1 {
		plural = "s"
	}
	return fmt.Sprintf("%d %s %s %s%s", n, ColorOf(c.Color).Name, ShadingOf(c.Shading), ShapeOf(c.Shape), plural)
}
