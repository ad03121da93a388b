package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHistoryOrdersCapsAndMarksCurrent(t *testing.T) {
	records := make([]PriceRecord, 0, 14)
	for day := 1; day <= 14; day++ {
		records = append(records, PriceRecord{Price: float64(day), ValidFrom: fmt.Sprintf("2026-02-%02d", day)})
	}

	h := BuildHistory(records, "2026-02-14", 12)

	require.Len(t, h.Rows, 12)
	assert.True(t, h.Available)
	assert.Equal(t, "2026-02-14", h.Rows[0].ValidFrom)
	assert.True(t, h.Rows[0].Current)
	assert.Equal(t, "2026-02-03", h.Rows[11].ValidFrom)
	for _, row := range h.Rows[1:] {
		assert.False(t, row.Current)
	}
	assert.Equal(t, "14. feb", h.Rows[0].ValidFromLabel)
	assert.Equal(t, 7, h.Rows[0].Week)
}

func TestBuildHistoryNeedsTwoRows(t *testing.T) {
	h := BuildHistory([]PriceRecord{{Price: 10, ValidFrom: "2026-02-01"}}, "2026-02-01", 0)
	assert.Len(t, h.Rows, 1)
	assert.False(t, h.Available)

	empty := BuildHistory(nil, "2026-02-01", 12)
	assert.Empty(t, empty.Rows)
	assert.False(t, empty.Available)
}
