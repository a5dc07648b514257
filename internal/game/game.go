package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Version of the game.
// Bumping this number will eventually make clients reload the WASM.
//
// If you set this to an empty string, a random version number will be
// used, and force the reload of the WASM on every restart (the reload
// still only happens after the first page is loaded, so there is a delay).
// This is useful during development.
var Version = "v0.1.0"

const (
	// InitialOpenCards is the number of cards dealt when a game starts.
	InitialOpenCards = 12

	// DealSize is the number of cards added by DealThreeMore.
	DealSize = 3

	// MatchReward is added to the score every time three matching cards are selected.
	MatchReward = 3

	// MismatchPenalty is subtracted from the score every time three non-matching cards are selected.
	MismatchPenalty = 5

	// DeselectPenalty is subtracted from the score when a selected card is deselected.
	DeselectPenalty = 1
)

// Game holds the state of one play session.
//
// Game is not safe for concurrent use: every method runs to completion synchronously,
// and the owner is expected to call one at a time.
type Game struct {
	deck          *Deck
	openCards     []Card
	selectedCards []Card
	matchedCards  []Card
	score         int
	rng           *rand.Rand // Used by ShuffleOpenCards.
}

// New creates a game with a freshly shuffled deck and the initial cards dealt.
func New() *Game {
	return NewWithRand(newRand())
}

// NewWithRand creates a game whose deck, and later shuffles of the open cards, use r.
// Games created with equally seeded sources play out identically.
func NewWithRand(r *rand.Rand) *Game {
	return newGame(NewDeckWithRand(r), r)
}

// NewWithDeck creates a game drawing from the given deck, and deals the initial cards.
func NewWithDeck(deck *Deck) *Game {
	return newGame(deck, newRand())
}

func newGame(deck *Deck, r *rand.Rand) *Game {
	g := &Game{deck: deck, rng: r}
	g.drawToOpenCards(InitialOpenCards)
	return g
}

// Deck returns the game's deck. Callers should only query it (IsEmpty, Len).
func (g *Game) Deck() *Deck { return g.deck }

// OpenCards returns a copy of the cards currently on the table, in display order.
func (g *Game) OpenCards() []Card { return slices.Clone(g.openCards) }

// SelectedCards returns a copy of the selected cards, in selection order.
func (g *Game) SelectedCards() []Card { return slices.Clone(g.selectedCards) }

// MatchedCards returns a copy of all cards matched so far.
func (g *Game) MatchedCards() []Card { return slices.Clone(g.matchedCards) }

// Score returns the current score, which may be negative.
func (g *Game) Score() int { return g.score }

// IsThreeSelected returns whether exactly three cards are selected.
func (g *Game) IsThreeSelected() bool {
	return len(g.selectedCards) == 3
}

// SelectedCardsMatch returns whether exactly three cards are selected and they form a match.
func (g *Game) SelectedCardsMatch() bool {
	if !g.IsThreeSelected() {
		return false
	}
	return IsMatch([3]Card(g.selectedCards))
}

// IsSelected returns whether the card is currently selected.
func (g *Game) IsSelected(card Card) bool {
	return slices.Contains(g.selectedCards, card)
}

// CanDealMore returns whether there are cards left to deal.
// Presentation layers use it to disable the "deal three more" action.
func (g *Game) CanDealMore() bool {
	return !g.deck.IsEmpty()
}

// SelectCard selects or deselects the open card at index.
//
// With fewer than three cards selected, selecting an already selected card deselects it,
// at a cost of DeselectPenalty. When three cards are already selected, the trio is resolved
// first (see DealThreeMore) and the card then starts a new selection if it is still open.
// Reaching three selected cards scores MatchReward or -MismatchPenalty.
//
// It panics if index is out of range: indices must come from the current OpenCards.
func (g *Game) SelectCard(index int) {
	if index < 0 || index >= len(g.openCards) {
		panic(fmt.Sprintf("game.SelectCard: index %d out of range for %d open cards", index, len(g.openCards)))
	}
	card := g.openCards[index]

	if selectedIdx := slices.Index(g.selectedCards, card); !g.IsThreeSelected() && selectedIdx >= 0 {
		g.selectedCards = slices.Delete(g.selectedCards, selectedIdx, selectedIdx+1)
		g.score -= DeselectPenalty
	} else {
		if g.IsThreeSelected() {
			g.resolveTrio()
		}
		// A matched card may have been taken off the table by the resolution above.
		if slices.Contains(g.openCards, card) {
			g.selectedCards = append(g.selectedCards, card)
		}
	}

	g.updateScore()
}

// DealThreeMore adds up to DealSize cards from the deck to the open cards.
//
// If the three selected cards match, the trio is resolved instead: the matched cards are
// replaced from the deck (or removed from the table once the deck is empty).
// With an empty deck and no pending match it does nothing.
func (g *Game) DealThreeMore() {
	if g.SelectedCardsMatch() {
		g.resolveTrio()
		return
	}
	g.drawToOpenCards(DealSize)
}

// ShuffleOpenCards randomly permutes the display order of the open cards.
// Selection, matching and score are not affected.
func (g *Game) ShuffleOpenCards() {
	g.rng.Shuffle(len(g.openCards), func(i, j int) {
		g.openCards[i], g.openCards[j] = g.openCards[j], g.openCards[i]
	})
}

// AvailableMatches returns how many matches can currently be formed with the open cards.
func (g *Game) AvailableMatches() int {
	return len(FindMatches(g.openCards))
}

// Hint returns the indices into OpenCards of one available match, if any.
// It doesn't affect the score.
func (g *Game) Hint() ([3]int, bool) {
	matches := FindMatches(g.openCards)
	if len(matches) == 0 {
		return [3]int{}, false
	}
	return matches[0], true
}

// IsOver returns whether no more moves can score: the deck is empty and
// no match is left among the open cards.
func (g *Game) IsOver() bool {
	return g.deck.IsEmpty() && g.AvailableMatches() == 0
}

func (g *Game) drawToOpenCards(n int) {
	for range n {
		card, ok := g.deck.Draw()
		if !ok {
			return
		}
		g.openCards = append(g.openCards, card)
	}
}

// updateScore scores a trio the moment it becomes fully selected.
func (g *Game) updateScore() {
	if !g.IsThreeSelected() {
		return
	}
	if g.SelectedCardsMatch() {
		g.score += MatchReward
	} else {
		g.score -= MismatchPenalty
	}
}

// resolveTrio moves a matching trio to the matched cards, replacing each of them in place
// with a card from the deck, or taking it off the table if the deck is empty.
// A non-matching trio is simply unselected. The selection is always cleared.
func (g *Game) resolveTrio() {
	if g.SelectedCardsMatch() {
		g.matchedCards = append(g.matchedCards, g.selectedCards...)
		for _, card := range g.selectedCards {
			openIdx := slices.Index(g.openCards, card)
			if openIdx < 0 {
				panic(fmt.Sprintf("game: selected card %s is not among the open cards", card))
			}
			if replacement, ok := g.deck.Draw(); ok {
				g.openCards[openIdx] = replacement
			} else {
				g.openCards = slices.Delete(g.openCards, openIdx, openIdx+1)
			}
		}
	}
	g.selectedCards = g.selectedCards[:0]
}
