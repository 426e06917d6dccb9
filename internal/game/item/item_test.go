package item_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/colony/internal/game/item"
)

func TestNew_UniqueIDs(t *testing.T) {
	a := item.New(item.Food)
	b := item.New(item.Food)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, item.Food, a.Kind)
}

func TestNew_NonePanics(t *testing.T) {
	assert.Panics(t, func() { item.New(item.None) })
}

func TestParseKind(t *testing.T) {
	k, err := item.ParseKind(" stone ")
	require.NoError(t, err)
	assert.Equal(t, item.Stone, k)

	_, err = item.ParseKind("gold")
	assert.Error(t, err)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "WOOD", item.Wood.String())
	assert.Equal(t, "Kind(42)", item.Kind(42).String())
}
