package nimmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tablePiles(tops ...Card) []*Pile {
	piles := make([]*Pile, 0, len(tops))
	for _, c := range tops {
		piles = append(piles, NewPile(c))
	}
	return piles
}

func TestEligiblePile(t *testing.T) {
	piles := tablePiles(10, 25, 50, 80)

	cases := []struct {
		card  Card
		index int
		ok    bool
	}{
		{card: 7, index: -1, ok: false},
		{card: 11, index: 0, ok: true},
		{card: 30, index: 1, ok: true},
		{card: 79, index: 2, ok: true},
		{card: 90, index: 3, ok: true},
	}
	for _, tc := range cases {
		idx, ok, err := EligiblePile(piles, tc.card)
		require.NoError(t, err)
		assert.Equal(t, tc.ok, ok, "card %d", tc.card)
		assert.Equal(t, tc.index, idx, "card %d", tc.card)
	}
}

func TestEligiblePileEmpty(t *testing.T) {
	piles := tablePiles(10, 25)
	piles[1].Take()
	_, _, err := EligiblePile(piles, 30)
	assert.ErrorIs(t, err, ErrEmptyPile)
}

func TestResolverBelowAllTops(t *testing.T) {
	piles := tablePiles(10, 25, 50, 80)
	res := NewResolver(map[string]Card{"a": 7})

	placements, err := res.Advance(piles)
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, ActionPenaltyRequired, placements[0].Action)
	assert.Nil(t, placements[0].Pile)

	pending, ok := res.Pending()
	require.True(t, ok)
	assert.Equal(t, Selection{PlayerID: "a", Card: 7}, pending)
	assert.False(t, res.Done())

	// Piles are untouched until the choice arrives
	for _, p := range piles {
		assert.Equal(t, 1, p.Len())
	}
}

func TestResolverClosestLowerTop(t *testing.T) {
	piles := tablePiles(10, 25, 50, 80)
	res := NewResolver(map[string]Card{"b": 30, "c": 90})

	placements, err := res.Advance(piles)
	require.NoError(t, err)
	require.Len(t, placements, 2)

	assert.Equal(t, "b", placements[0].PlayerID)
	assert.Equal(t, ActionPlaced, placements[0].Action)
	assert.Equal(t, 1, *placements[0].Pile)

	assert.Equal(t, "c", placements[1].PlayerID)
	assert.Equal(t, ActionPlaced, placements[1].Action)
	assert.Equal(t, 3, *placements[1].Pile)

	assert.True(t, res.Done())
	assert.Equal(t, []Card{25, 30}, piles[1].Cards())
	assert.Equal(t, []Card{80, 90}, piles[3].Cards())
}

func TestResolverSixthCard(t *testing.T) {
	piles := tablePiles(3, 40, 60, 80)
	for _, c := range []Card{12, 19, 22, 25} {
		piles[0].Append(c)
	}

	res := NewResolver(map[string]Card{"a": 27})
	placements, err := res.Advance(piles)
	require.NoError(t, err)
	require.Len(t, placements, 1)

	pl := placements[0]
	assert.Equal(t, ActionForcedTake, pl.Action)
	assert.Equal(t, 0, *pl.Pile)
	assert.Equal(t, []Card{3, 12, 19, 22, 25}, pl.TakenCards)
	assert.Equal(t, 1+1+1+5+2, pl.PenaltyPoints)
	assert.Equal(t, []Card{27}, piles[0].Cards())
	assert.True(t, res.Done())
}

func TestResolverOrdersAscending(t *testing.T) {
	piles := tablePiles(10, 25, 50, 80)
	res := NewResolver(map[string]Card{"x": 52, "y": 51, "z": 53})

	placements, err := res.Advance(piles)
	require.NoError(t, err)
	require.Len(t, placements, 3)
	assert.Equal(t, "y", placements[0].PlayerID)
	assert.Equal(t, "x", placements[1].PlayerID)
	assert.Equal(t, "z", placements[2].PlayerID)
	assert.Equal(t, []Card{50, 51, 52, 53}, piles[2].Cards())
}

func TestResolverResolveThenContinue(t *testing.T) {
	piles := tablePiles(10, 25, 50, 80)
	res := NewResolver(map[string]Card{"a": 7, "b": 8, "c": 30})

	placements, err := res.Advance(piles)
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.ElementsMatch(t, []Card{7, 8, 30}, res.InFlight())

	// Calling again while the choice is pending is a no-op
	again, err := res.Advance(piles)
	require.NoError(t, err)
	assert.Empty(t, again)

	_, err = res.Resolve(piles, "b", 0, 7)
	assert.ErrorIs(t, err, ErrNoPendingPenalty)
	_, err = res.Resolve(piles, "a", 0, 8)
	assert.ErrorIs(t, err, ErrNoPendingPenalty)
	_, err = res.Resolve(piles, "a", 4, 7)
	assert.ErrorIs(t, err, ErrInvalidPile)

	taken, err := res.Resolve(piles, "a", 2, 7)
	require.NoError(t, err)
	assert.Equal(t, ActionTookPile, taken.Action)
	assert.Equal(t, []Card{50}, taken.TakenCards)
	assert.Equal(t, 3, taken.PenaltyPoints)
	assert.Equal(t, []Card{7}, piles[2].Cards())

	// 8 now goes on top of the reseeded 7
	rest, err := res.Advance(piles)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, Card(8), rest[0].Card)
	assert.Equal(t, 2, *rest[0].Pile)
	assert.Equal(t, Card(30), rest[1].Card)
	assert.Equal(t, 1, *rest[1].Pile)
	assert.True(t, res.Done())
	assert.Empty(t, res.InFlight())
}

func TestResolverDeterministic(t *testing.T) {
	selections := map[string]Card{"a": 7, "b": 33, "c": 51, "d": 81, "e": 26}

	run := func() ([]Placement, [][]Card) {
		piles := tablePiles(10, 25, 50, 80)
		res := NewResolver(selections)
		var all []Placement
		placements, err := res.Advance(piles)
		require.NoError(t, err)
		all = append(all, placements...)
		for !res.Done() {
			sel, ok := res.Pending()
			require.True(t, ok)
			taken, err := res.Resolve(piles, sel.PlayerID, 0, sel.Card)
			require.NoError(t, err)
			all = append(all, taken)
			placements, err = res.Advance(piles)
			require.NoError(t, err)
			all = append(all, placements...)
		}
		views := make([][]Card, len(piles))
		for i, p := range piles {
			views[i] = p.Cards()
		}
		return all, views
	}

	firstPlacements, firstPiles := run()
	for i := 0; i < 20; i++ {
		placements, piles := run()
		assert.Equal(t, firstPlacements, placements)
		assert.Equal(t, firstPiles, piles)
	}
}
