package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceYieldsRemainderOnLastStep(t *testing.T) {
	total := 45
	shown := NormalizeShown(0, 20)
	seq := []int{shown}
	for shown < total {
		shown = Advance(shown, 20, total)
		seq = append(seq, shown)
	}
	assert.Equal(t, []int{20, 40, 45}, seq)

	list := make([]int, total)
	page := Slice(list, shown)
	assert.Len(t, page.Visible, 45)
	assert.False(t, page.HasMore)
}

func TestSliceHasMoreWhileCursorBelowLength(t *testing.T) {
	list := []string{"a", "b", "c"}

	page := Slice(list, 2)
	require.Equal(t, []string{"a", "b"}, page.Visible)
	assert.True(t, page.HasMore)
	assert.Equal(t, 2, page.Shown)
	assert.Equal(t, 3, page.Total)

	page = Slice(list, 3)
	assert.False(t, page.HasMore)

	page = Slice(list, 10)
	assert.Len(t, page.Visible, 3)
	assert.Equal(t, 3, page.Shown)
	assert.False(t, page.HasMore)
}

func TestSliceDoesNotAliasInput(t *testing.T) {
	list := []int{1, 2, 3}
	page := Slice(list, 2)
	page.Visible[0] = 99
	assert.Equal(t, 1, list[0])
}

func TestSliceEmpty(t *testing.T) {
	page := Slice([]int(nil), 20)
	assert.Empty(t, page.Visible)
	assert.False(t, page.HasMore)
	assert.Equal(t, 0, page.Total)
}

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NormalizePageSize(0))
	assert.Equal(t, MaxPageSize, NormalizePageSize(1000))
	assert.Equal(t, 7, NormalizePageSize(7))
}

func TestAdvanceUnknownTotal(t *testing.T) {
	assert.Equal(t, 40, Advance(20, 20, -1))
	assert.Equal(t, 20, Advance(0, 20, -1))
}
