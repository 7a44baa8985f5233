package utils

import (
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageOptions carries the pagination and sorting knobs every list
// endpoint accepts: page, limit, sortBy, sortOrder. Defaults are
// page=1, limit=10, sorted by creation time descending.
type PageOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Meta is the pagination envelope returned next to list data.
type Meta struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"totalPage"`
}

func ParsePageOptions(page, limit, sortBy, sortOrder string) PageOptions {
	opts := PageOptions{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
	if p, err := strconv.Atoi(page); err == nil && p > 0 {
		opts.Page = p
	}
	if l, err := strconv.Atoi(limit); err == nil && l > 0 {
		opts.Limit = l
	}
	if col := sanitizeColumn(sortBy); col != "" {
		opts.SortBy = col
	}
	if strings.EqualFold(sortOrder, "asc") {
		opts.SortOrder = "asc"
	}
	return opts
}

func (o PageOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

func (o PageOptions) Order() string {
	return o.SortBy + " " + o.SortOrder
}

// Scope applies ordering and paging to a gorm query.
func (o PageOptions) Scope(db *gorm.DB) *gorm.DB {
	return db.Order(o.Order()).Offset(o.Offset()).Limit(o.Limit)
}

func (o PageOptions) NewMeta(total int64) Meta {
	return Meta{
		Page:      o.Page,
		Limit:     o.Limit,
		Total:     total,
		TotalPage: int(math.Ceil(float64(total) / float64(o.Limit))),
	}
}

// sanitizeColumn converts an API-facing camelCase sort field into its
// snake_case column name and rejects anything that is not a plain
// identifier, so a sort parameter can never inject SQL.
func sanitizeColumn(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case r >= 'a' && r <= 'z' || r == '_' || (r >= '0' && r <= '9' && i > 0):
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteByte('_')
			b.WriteRune(r + ('a' - 'A'))
		default:
			return ""
		}
	}
	return b.String()
}
