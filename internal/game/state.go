package game

import (
	"fmt"
	"strings"
)

// OpenCard is a card on the table, as seen by the presentation layer.
type OpenCard struct {
	Card     Card `json:"card"`
	Selected bool `json:"selected"`
}

// View is a read-only snapshot of a Game, sent to clients after every move.
type View struct {
	OpenCards        []OpenCard `json:"open_cards"`
	ThreeSelected    bool       `json:"three_selected"`
	SelectedMatch    bool       `json:"selected_match"` // Only meaningful if ThreeSelected.
	Score            int        `json:"score"`
	Matched          int        `json:"matched"`   // Number of matched cards.
	DeckSize         int        `json:"deck_size"` // Cards left to draw.
	CanDeal          bool       `json:"can_deal"`
	AvailableMatches int        `json:"available_matches"`
	Over             bool       `json:"over"`
}

// View returns a snapshot of the current state of the game.
func (g *Game) View() View {
	v := View{
		OpenCards:        make([]OpenCard, 0, len(g.openCards)),
		ThreeSelected:    g.IsThreeSelected(),
		SelectedMatch:    g.SelectedCardsMatch(),
		Score:            g.score,
		Matched:          len(g.matchedCards),
		DeckSize:         g.deck.Len(),
		CanDeal:          g.CanDealMore(),
		AvailableMatches: g.AvailableMatches(),
	}
	for _, card := range g.openCards {
		v.OpenCards = append(v.OpenCards, OpenCard{Card: card, Selected: g.IsSelected(card)})
	}
	v.Over = !v.CanDeal && v.AvailableMatches == 0
	return v
}

func (v *View) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Game: score=%d, matched=%d, deck=%d, open=%d, selected=[", v.Score, v.Matched, v.DeckSize, len(v.OpenCards))
	for i, c := range v.OpenCards {
		if c.Selected {
			fmt.Fprintf(&sb, " %d:%s", i, c.Card)
		}
	}
	sb.WriteString(" ]")
	return sb.String()
}
