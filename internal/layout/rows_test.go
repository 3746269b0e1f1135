package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapped_PadsToCapacity(t *testing.T) {
	for n := 0; n <= 6; n++ {
		items := seq(n)
		slots, err := Capped(items, 6)
		require.NoError(t, err)
		require.Len(t, slots, 6)

		for i, slot := range slots {
			assert.Equal(t, i+1, slot.Index)
			if i < n {
				assert.True(t, slot.Filled)
				assert.Equal(t, items[i], slot.Item)
			} else {
				assert.False(t, slot.Filled)
				assert.Zero(t, slot.Item)
			}
		}
	}
}

func TestCapped_DropsOverflow(t *testing.T) {
	slots, err := Capped([]string{"a", "b", "c", "d", "e", "f", "g"}, 5)
	require.NoError(t, err)
	require.Len(t, slots, 5)
	assert.Equal(t, "e", slots[4].Item)
	for _, slot := range slots {
		assert.True(t, slot.Filled)
	}
}

func TestFloored_NeverDrops(t *testing.T) {
	tests := []struct {
		name  string
		items int
		floor int
		want  int
	}{
		{name: "empty pads to floor", items: 0, floor: 3, want: 3},
		{name: "short pads to floor", items: 2, floor: 3, want: 3},
		{name: "exact", items: 5, floor: 5, want: 5},
		{name: "grows past floor", items: 8, floor: 3, want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := seq(tt.items)
			slots, err := Floored(items, tt.floor)
			require.NoError(t, err)
			require.Len(t, slots, tt.want)

			filled := 0
			for i, slot := range slots {
				if slot.Filled {
					assert.Equal(t, items[i], slot.Item)
					filled++
				}
			}
			assert.Equal(t, tt.items, filled)
		})
	}
}

func TestRowRenderers_RejectNonPositiveCapacity(t *testing.T) {
	_, err := Capped(seq(1), 0)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
	_, err = Floored(seq(1), -1)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestSlotLabel(t *testing.T) {
	filled := Slot[string]{Index: 3, Item: "x", Filled: true}
	blank := Slot[string]{Index: 4}

	assert.Equal(t, "3", filled.Label(true))
	assert.Equal(t, "", blank.Label(true))
	assert.Equal(t, "4", blank.Label(false))
}

func TestTruncateLines(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, []string{"late check-in"}, TruncateLines("late check-in", 2, 20))
	})

	t.Run("wraps on spaces", func(t *testing.T) {
		lines := TruncateLines("one two three four", 2, 9)
		assert.Equal(t, []string{"one two", "three" + ellipsis}, lines)
	})

	t.Run("keeps explicit line breaks", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, TruncateLines("a\nb", 2, 10))
	})

	t.Run("ellipsis fits width", func(t *testing.T) {
		lines := TruncateLines(strings.Repeat("x", 30), 2, 10)
		require.Len(t, lines, 2)
		assert.Equal(t, 10, len([]rune(lines[1])))
		assert.True(t, strings.HasSuffix(lines[1], ellipsis))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, TruncateLines("   ", 2, 10))
	})
}
