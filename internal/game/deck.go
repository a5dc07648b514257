package game

import (
	"math/rand/v2"
)

// Deck is the one-time, randomized source of cards for a game.
// Cards are drawn from the front; once drawn they never come back.
type Deck struct {
	cards []Card
}

// NewDeck creates the full 81-card deck in a random order.
func NewDeck() *Deck {
	return NewDeckWithRand(newRand())
}

// NewDeckWithRand creates the full deck shuffled with the given source.
// Useful for reproducible games.
func NewDeckWithRand(r *rand.Rand) *Deck {
	cards := AllCards()
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// NewDeckFromCards creates a deck that draws exactly the given cards, in order.
// The caller is responsible for the composition of the deck.
func NewDeckFromCards(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Draw removes and returns the first remaining card.
// It returns false if the deck is exhausted, which is not an error.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// IsEmpty returns true iff no cards remain.
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, in draw order.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

// newRand returns a source seeded from the global generator.
func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
