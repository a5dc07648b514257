package game

import "fmt"

// Property is one of the three values a card can take along any of its four dimensions.
// The engine never interprets the values: how a Property is drawn is up to the presentation layer.
type Property int

const (
	First Property = iota
	Second
	Third
)

// Properties lists all values of Property, in order.
var Properties = [...]Property{First, Second, Third}

func (p Property) String() string {
	switch p {
	case First:
		return "First"
	case Second:
		return "Second"
	case Third:
		return "Third"
	}
	return fmt.Sprintf("Property(%d)", int(p))
}

// Valid reports whether p is one of First, Second or Third.
func (p Property) Valid() bool {
	return p >= First && p <= Third
}

// Card is an immutable combination of the four properties.
// Cards are comparable, and two cards are equal iff all four properties are equal.
type Card struct {
	Count   Property `json:"count"`
	Shape   Property `json:"shape"`
	Shading Property `json:"shading"`
	Color   Property `json:"color"`
}

// properties returns the card's four dimensions in a fixed order.
func (c Card) properties() [4]Property {
	return [4]Property{c.Count, c.Shape, c.Shading, c.Color}
}

func (c Card) String() string {
	return fmt.Sprintf("(%s %s %s %s)", c.Count, c.Shape, c.Shading, c.Color)
}

// NumCards is the size of the full deck: 3 values ^ 4 properties.
const NumCards = 81

// AllCards returns every card exactly once, in canonical (unshuffled) order.
func AllCards() []Card {
	cards := make([]Card, 0, NumCards)
	for _, color := range Properties {
		for _, count := range Properties {
			for _, shape := range Properties {
				for _, shading := range Properties {
					cards = append(cards, Card{Count: count, Shape: shape, Shading: shading, Color: color})
				}
			}
		}
	}
	return cards
}
