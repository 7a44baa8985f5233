package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"travelbuddy-server/model"
)

func TestSubscriptionPeriod(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, from.AddDate(0, 0, 30), subscriptionPeriod(model.PlanMonthly, from))
	assert.Equal(t, time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), subscriptionPeriod(model.PlanYearly, from))
}
