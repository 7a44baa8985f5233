package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestOverlapDays(t *testing.T) {
	// Identical single day counts as one.
	assert.Equal(t, 1, overlapDays(date("2026-06-01"), date("2026-06-01"), date("2026-06-01"), date("2026-06-01")))

	// Partial overlap, inclusive on both ends.
	assert.Equal(t, 3, overlapDays(date("2026-06-01"), date("2026-06-10"), date("2026-06-08"), date("2026-06-15")))

	// One range fully inside the other.
	assert.Equal(t, 5, overlapDays(date("2026-06-01"), date("2026-06-30"), date("2026-06-10"), date("2026-06-14")))

	// Disjoint ranges score zero.
	assert.Equal(t, 0, overlapDays(date("2026-06-01"), date("2026-06-05"), date("2026-06-06"), date("2026-06-10")))

	// Touching at the boundary day overlaps for that one day.
	assert.Equal(t, 1, overlapDays(date("2026-06-01"), date("2026-06-05"), date("2026-06-05"), date("2026-06-10")))

	// Ranges with time-of-day components round partial days up: a
	// 12-hour intersection spans two calendar days.
	noon := date("2026-06-02").Add(12 * time.Hour)
	assert.Equal(t, 2, overlapDays(date("2026-06-01"), noon, date("2026-06-02"), date("2026-06-10")))
}

func TestMatchScore(t *testing.T) {
	assert.Equal(t, 0, matchScore(0, 0))
	assert.Equal(t, 10, matchScore(1, 0))
	assert.Equal(t, 5, matchScore(0, 1))
	assert.Equal(t, 45, matchScore(3, 3))
}
