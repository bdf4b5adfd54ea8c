package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDirection_IsStandard(t *testing.T) {
	for _, d := range StandardDirections {
		assert.True(t, d.IsStandard(), "expected %q to be standard", d)
	}
	assert.False(t, Direction("stairs").IsStandard())
	assert.False(t, Direction("portal").IsStandard())
}

func TestDirection_Opposite(t *testing.T) {
	pairs := [][2]Direction{
		{North, South},
		{East, West},
		{Northeast, Southwest},
		{Northwest, Southeast},
		{Up, Down},
	}
	for _, pair := range pairs {
		assert.Equal(t, pair[1], pair[0].Opposite())
		assert.Equal(t, pair[0], pair[1].Opposite())
	}
	assert.Equal(t, Direction(""), Direction("stairs").Opposite())
}

func TestPropertyOppositeIsInvolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := rapid.IntRange(0, len(StandardDirections)-1).Draw(t, "dir_idx")
		d := StandardDirections[idx]
		assert.Equal(t, d, d.Opposite().Opposite(), "opposite should be an involution for %q", d)
	})
}

func TestNewItem_RequiresName(t *testing.T) {
	_, err := NewItem("  ", "desc", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	item, err := NewItem("Key", "A small brass key.", "")
	require.NoError(t, err)
	assert.Equal(t, "key", item.Key())
}

func TestInventory_AddRemove(t *testing.T) {
	inv := NewInventory()
	key, _ := NewItem("Key", "", "")
	coin, _ := NewItem("coin", "", "")

	require.NoError(t, inv.Add(key))
	require.NoError(t, inv.Add(coin))
	assert.Error(t, inv.Add(key), "duplicate item")
	assert.Error(t, inv.Add(nil))

	assert.True(t, inv.Has("KEY"))
	assert.Equal(t, 2, inv.Count())
	assert.Equal(t, []*Item{key, coin}, inv.Items())
	assert.Equal(t, []string{"Key", "coin"}, inv.Names())

	got, ok := inv.Remove("key")
	require.True(t, ok)
	assert.Same(t, key, got)
	assert.False(t, inv.Has("key"))
	assert.Equal(t, []*Item{coin}, inv.Items())

	_, ok = inv.Remove("key")
	assert.False(t, ok)
}

func TestPropertyInventoryAddThenRemoveRestoresCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,8}`), 0, 10, rapid.ID[string]).Draw(t, "names")
		inv := NewInventory()
		for _, n := range names {
			item, err := NewItem(n, "", "")
			if err != nil {
				t.Fatal(err)
			}
			if err := inv.Add(item); err != nil {
				t.Fatal(err)
			}
		}
		if inv.Count() != len(names) {
			t.Fatalf("Count = %d, want %d", inv.Count(), len(names))
		}
		for _, n := range names {
			if _, ok := inv.Remove(n); !ok {
				t.Fatalf("Remove(%q) failed", n)
			}
		}
		if inv.Count() != 0 {
			t.Fatalf("Count = %d after removing all", inv.Count())
		}
	})
}
