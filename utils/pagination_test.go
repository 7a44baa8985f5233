package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageOptionsDefaults(t *testing.T) {
	opts := ParsePageOptions("", "", "", "")
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, "created_at desc", opts.Order())
	assert.Equal(t, 0, opts.Offset())
}

func TestParsePageOptionsClampsBadInput(t *testing.T) {
	opts := ParsePageOptions("-3", "0", "", "")
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 10, opts.Limit)

	opts = ParsePageOptions("abc", "xyz", "", "")
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 10, opts.Limit)
}

func TestParsePageOptionsSortSanitization(t *testing.T) {
	opts := ParsePageOptions("2", "5", "startDate", "asc")
	assert.Equal(t, "start_date asc", opts.Order())
	assert.Equal(t, 5, opts.Offset())

	// Injection attempts fall back to the default sort column.
	opts = ParsePageOptions("1", "10", "created_at; DROP TABLE users", "asc")
	assert.Equal(t, "created_at asc", opts.Order())

	opts = ParsePageOptions("1", "10", "createdAt", "sideways")
	assert.Equal(t, "created_at desc", opts.Order())
}

func TestNewMeta(t *testing.T) {
	opts := ParsePageOptions("2", "5", "", "")
	meta := opts.NewMeta(12)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 5, meta.Limit)
	assert.Equal(t, int64(12), meta.Total)
	assert.Equal(t, 3, meta.TotalPage)

	meta = opts.NewMeta(0)
	assert.Equal(t, 0, meta.TotalPage)
}
