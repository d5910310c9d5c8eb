package wire

import (
	"Bullpen/services/nimmt"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownEvent struct{ nimmt.RoundFinished }

func TestEncodeEveryEvent(t *testing.T) {
	pile := 1
	events := []nimmt.Event{
		nimmt.PlayerJoined{PlayerID: "p1", PlayerName: "Bob"},
		nimmt.GameStarted{Round: 1},
		nimmt.CardSelected{PlayerID: "p0"},
		nimmt.RoundComplete{PenaltyNeeded: true},
		nimmt.PileTaken{PlayerID: "p0", PileIndex: 2},
		nimmt.RoundFinished{Round: 1, Message: "Round 1 finished!"},
		nimmt.RoundEnded{NextRound: 2},
		nimmt.GameFinished{Result: nimmt.Result{WinnerName: "Carol"}},
		nimmt.RoundComplete{PlacementResults: []nimmt.Placement{{PlayerID: "p0", Card: 30, Action: nimmt.ActionPlaced, Pile: &pile}}},
	}

	for _, ev := range events {
		data, err := Encode(ev)
		require.NoError(t, err, ev.Type())

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, string(ev.Type()), decoded["type"])
	}
}

func TestEncodeFieldNames(t *testing.T) {
	data, err := Encode(nimmt.PileTaken{
		PlayerID:          "p0",
		PileIndex:         3,
		PenaltyPoints:     7,
		TakenCards:        []nimmt.Card{55},
		AllCardsProcessed: true,
		CurrentRound:      4,
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(3), decoded["pile_idx"])
	assert.Equal(t, float64(7), decoded["penalty_points"])
	assert.Equal(t, []interface{}{float64(55)}, decoded["taken_cards"])
	assert.Equal(t, true, decoded["all_cards_processed"])
	assert.Equal(t, false, decoded["more_penalties"])
	assert.Equal(t, float64(4), decoded["current_round"])

	data, err = Encode(nimmt.GameStarted{Round: 1, SharedCards: []nimmt.Card{3, 40, 61, 90}})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(1), decoded["current_round"])

	data, err = Encode(nimmt.GameFinished{Result: nimmt.Result{
		WinnerID:     "p2",
		WinnerName:   "Carol",
		WinnerPoints: 38,
		FinalScores:  map[string]nimmt.Score{"p2": {PlayerID: "p2", Name: "Carol", Points: 38}},
	}})
	require.NoError(t, err)
	decoded = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Carol", decoded["winner_name"])
	assert.Equal(t, float64(38), decoded["winner_points"])
	scores := decoded["final_scores"].(map[string]interface{})
	assert.Equal(t, "Carol", scores["p2"].(map[string]interface{})["name"])
}

func TestEncodeUnknownEvent(t *testing.T) {
	_, err := Encode(unknownEvent{})
	assert.Error(t, err)
}

func TestDecodeClient(t *testing.T) {
	msg, err := DecodeClient([]byte(`{"type":"select","card":42}`))
	require.NoError(t, err)
	assert.Equal(t, nimmt.Card(42), msg.Card)

	msg, err = DecodeClient([]byte(`{"type":"take_pile","pile_idx":0,"low_card":3}`))
	require.NoError(t, err)
	require.NotNil(t, msg.PileIdx)
	assert.Equal(t, 0, *msg.PileIdx)
	assert.Equal(t, nimmt.Card(3), msg.LowCard)

	_, err = DecodeClient([]byte(`{"type":"ping"}`))
	assert.NoError(t, err)

	_, err = DecodeClient([]byte(`{"type":"select","card":105}`))
	assert.ErrorIs(t, err, nimmt.ErrInvalidCard)

	_, err = DecodeClient([]byte(`{"type":"take_pile","low_card":3}`))
	assert.Error(t, err)

	_, err = DecodeClient([]byte(`{"type":"dance"}`))
	assert.Error(t, err)

	_, err = DecodeClient([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncodeError(t *testing.T) {
	var decoded ErrorMessage
	require.NoError(t, json.Unmarshal(EncodeError(nimmt.ErrCardNotHeld), &decoded))
	assert.Equal(t, "error", decoded.Type)
	assert.Equal(t, nimmt.ErrCardNotHeld.Error(), decoded.Error)
}
