package nimmt

import (
	"fmt"
	"sort"
)

// Action describes what happened to a selected card during resolution
type Action string

const (
	ActionPlaced          Action = "placed"
	ActionForcedTake      Action = "took_pile_6th"
	ActionPenaltyRequired Action = "penalty_required"
	ActionTookPile        Action = "took_pile"
)

// Selection is the card a player put face down this round
type Selection struct {
	PlayerID string `json:"player_id"`
	Card     Card   `json:"card"`
}

// Placement is one step of the resolution of a round, in the order it happened
type Placement struct {
	PlayerID      string `json:"player_id"`
	Card          Card   `json:"card"`
	Action        Action `json:"action"`
	Pile          *int   `json:"pile,omitempty"`
	PenaltyPoints int    `json:"penalty_points,omitempty"`
	TakenCards    []Card `json:"taken_cards,omitempty"`
}

// Resolver places the selections of a round from lowest to highest card.
// It stops at the first card that is lower than every pile top and waits
// for its owner to choose which pile to take
type Resolver struct {
	queue   []Selection
	pending *Selection
}

// NewResolver orders the selections ascending. Card numbers are unique across
// hands so there are no ties
func NewResolver(selections map[string]Card) *Resolver {
	queue := make([]Selection, 0, len(selections))
	for playerID, card := range selections {
		queue = append(queue, Selection{PlayerID: playerID, Card: card})
	}
	sort.Slice(queue, func(i, j int) bool {
		return Compare(queue[i].Card, queue[j].Card) < 0
	})
	return &Resolver{queue: queue}
}

// EligiblePile returns the pile whose top is the closest lower card.
// ok is false when the card is lower than every top
func EligiblePile(piles []*Pile, card Card) (index int, ok bool, err error) {
	index = -1
	var best Card
	for i, pile := range piles {
		top, err := pile.Top()
		if err != nil {
			return -1, false, fmt.Errorf("pile %d: %w", i, err)
		}
		if top < card && (index < 0 || top > best) {
			index = i
			best = top
		}
	}
	return index, index >= 0, nil
}

// Advance resolves queued cards until the queue is empty or a card needs a
// penalty choice. Calling it while a choice is pending does nothing
func (r *Resolver) Advance(piles []*Pile) ([]Placement, error) {
	placements := []Placement{}
	if r.pending != nil {
		return placements, nil
	}

	for len(r.queue) > 0 {
		sel := r.queue[0]

		idx, ok, err := EligiblePile(piles, sel.Card)
		if err != nil {
			return placements, err
		}

		if !ok {
			r.queue = r.queue[1:]
			r.pending = &sel
			placements = append(placements, Placement{
				PlayerID: sel.PlayerID,
				Card:     sel.Card,
				Action:   ActionPenaltyRequired,
			})
			return placements, nil
		}

		r.queue = r.queue[1:]
		pile := piles[idx]
		pileIdx := idx

		if pile.Len() >= maxPileSize {
			taken, points := pile.Take()
			pile.Reseed(sel.Card)
			placements = append(placements, Placement{
				PlayerID:      sel.PlayerID,
				Card:          sel.Card,
				Action:        ActionForcedTake,
				Pile:          &pileIdx,
				PenaltyPoints: points,
				TakenCards:    taken,
			})
			continue
		}

		pile.Append(sel.Card)
		placements = append(placements, Placement{
			PlayerID: sel.PlayerID,
			Card:     sel.Card,
			Action:   ActionPlaced,
			Pile:     &pileIdx,
		})
	}

	return placements, nil
}

// Pending returns the selection waiting for a pile choice, if any
func (r *Resolver) Pending() (Selection, bool) {
	if r.pending == nil {
		return Selection{}, false
	}
	return *r.pending, true
}

// Resolve applies the pile choice of the player owning the pending selection.
// The chosen pile goes to the player and is reseeded with the low card
func (r *Resolver) Resolve(piles []*Pile, playerID string, pileIdx int, card Card) (Placement, error) {
	if r.pending == nil || r.pending.PlayerID != playerID || r.pending.Card != card {
		return Placement{}, ErrNoPendingPenalty
	}
	if pileIdx < 0 || pileIdx >= len(piles) {
		return Placement{}, ErrInvalidPile
	}

	pile := piles[pileIdx]
	taken, points := pile.Take()
	pile.Reseed(card)
	r.pending = nil

	return Placement{
		PlayerID:      playerID,
		Card:          card,
		Action:        ActionTookPile,
		Pile:          &pileIdx,
		PenaltyPoints: points,
		TakenCards:    taken,
	}, nil
}

// Done is true once every selection has been placed and no choice is pending
func (r *Resolver) Done() bool {
	return r.pending == nil && len(r.queue) == 0
}

// InFlight lists the cards that are neither in a hand nor on the table yet
func (r *Resolver) InFlight() []Card {
	cards := make([]Card, 0, len(r.queue)+1)
	if r.pending != nil {
		cards = append(cards, r.pending.Card)
	}
	for _, sel := range r.queue {
		cards = append(cards, sel.Card)
	}
	return cards
}
