// internal/deck/deck.go
package deck

import (
	"fmt"
	"math/rand"
)

// Card is a single playing card. Immutable once created; ID is unique within
// one deck (suit glyph followed by rank, e.g. "♠1").
type Card struct {
	ID          string `json:"id"`
	Value       int    `json:"value"`
	Points      int    `json:"points"`
	DisplayName string `json:"displayName"`
}

var suits = []string{"♠", "♥", "♦", "♣"}

// New builds a standard 52-card deck (4 suits x ranks 1..13, points capped at
// 10) and returns it uniformly shuffled. The end of the slice is the top of
// the deck.
func New() []Card {
	cards := make([]Card, 0, 52)
	for _, s := range suits {
		for v := 1; v <= 13; v++ {
			cards = append(cards, Card{
				ID:          fmt.Sprintf("%s%d", s, v),
				Value:       v,
				Points:      min(v, 10),
				DisplayName: fmt.Sprintf("%d%s", v, s),
			})
		}
	}
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}
