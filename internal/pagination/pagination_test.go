package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page := Slice(items, PageRequest{Page: 2, PageSize: 2})
	assert.Equal(t, []int{3, 4}, page.Data)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)

	past := Slice(items, PageRequest{Page: 9, PageSize: 2})
	assert.Empty(t, past.Data)
	assert.NotNil(t, past.Data)

	defaults := Slice(items, PageRequest{})
	assert.Equal(t, 1, defaults.Page)
	assert.Equal(t, 20, defaults.PageSize)
	assert.Len(t, defaults.Data, 5)
}
