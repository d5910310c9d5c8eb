package nimmt

import (
	game_constants "Bullpen/constants/game"
	"math/rand"
	"sort"
)

// Card is one of the 104 numbered cards. It has no identity beyond its number
type Card int

// Deck holds the cards that are still undealt
type Deck struct {
	Cards []Card `json:"cards"`
}

// Valid reports whether the card number exists in the deck
func (c Card) Valid() bool {
	return c >= 1 && c <= game_constants.DECK_SIZE
}

// Points returns the bull points (penalty value) carried by the card
func (c Card) Points() int {
	return BullPoints(c)
}

// BullPoints maps a card number to its penalty value:
// 55 is worth 7, multiples of 11 are worth 5, multiples of 10 are worth 3,
// multiples of 5 are worth 2 and every other card is worth 1
func BullPoints(c Card) int {
	switch {
	case c == 55:
		return 7
	case c%11 == 0:
		return 5
	case c%10 == 0:
		return 3
	case c%5 == 0:
		return 2
	default:
		return 1
	}
}

// Compare orders cards by their number
func Compare(a, b Card) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SumPoints adds up the bull points of the given cards
func SumPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += BullPoints(c)
	}
	return total
}

// SortCards sorts in place, ascending
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return Compare(cards[i], cards[j]) < 0
	})
}

// NewDeck returns a sorted deck with every card from 1 to 104
func NewDeck() *Deck {
	cards := make([]Card, 0, game_constants.DECK_SIZE)
	for c := 1; c <= game_constants.DECK_SIZE; c++ {
		cards = append(cards, Card(c))
	}
	return &Deck{Cards: cards}
}

// Shuffle randomizes the deck using Fisher-Yates
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw removes up to n cards from the front of the deck
func (d *Deck) Draw(n int) []Card {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}

	drawn := make([]Card, n)
	copy(drawn, d.Cards[:n])
	d.Cards = d.Cards[n:]

	return drawn
}

// Len is the number of undealt cards
func (d *Deck) Len() int {
	return len(d.Cards)
}

func copyCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}
