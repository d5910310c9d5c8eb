package handlers

import (
	"Bullpen/services/nimmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelect(t *testing.T) {
	card, err := ParseSelect([]interface{}{map[string]interface{}{"card": float64(42)}})
	require.NoError(t, err)
	assert.Equal(t, nimmt.Card(42), card)

	_, err = ParseSelect(nil)
	assert.ErrorIs(t, err, ErrMissingPayload)

	_, err = ParseSelect([]interface{}{"42"})
	assert.ErrorIs(t, err, ErrMissingPayload)

	_, err = ParseSelect([]interface{}{map[string]interface{}{"card": float64(105)}})
	assert.ErrorIs(t, err, nimmt.ErrInvalidCard)

	_, err = ParseSelect([]interface{}{map[string]interface{}{"card": 4.5}})
	assert.ErrorIs(t, err, nimmt.ErrInvalidCard)
}

func TestParseTakePile(t *testing.T) {
	pileIdx, lowCard, err := ParseTakePile([]interface{}{map[string]interface{}{"pile_idx": float64(0), "low_card": float64(3)}})
	require.NoError(t, err)
	assert.Equal(t, 0, pileIdx)
	assert.Equal(t, nimmt.Card(3), lowCard)

	_, _, err = ParseTakePile([]interface{}{map[string]interface{}{"low_card": float64(3)}})
	assert.ErrorIs(t, err, nimmt.ErrInvalidPile)

	_, _, err = ParseTakePile([]interface{}{map[string]interface{}{"pile_idx": float64(1)}})
	assert.ErrorIs(t, err, nimmt.ErrInvalidCard)
}
