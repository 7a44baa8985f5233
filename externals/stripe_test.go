package externals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travelbuddy-server/model"
)

func TestPlanAmountDefaults(t *testing.T) {
	t.Setenv("PRICE_MONTHLY_CENTS", "")
	t.Setenv("PRICE_YEARLY_CENTS", "")

	assert.Equal(t, int64(5000), PlanAmount(model.PlanMonthly))
	assert.Equal(t, int64(50000), PlanAmount(model.PlanYearly))
}

func TestPlanAmountEnvOverride(t *testing.T) {
	t.Setenv("PRICE_MONTHLY_CENTS", "999")
	t.Setenv("PRICE_YEARLY_CENTS", "9990")

	assert.Equal(t, int64(999), PlanAmount(model.PlanMonthly))
	assert.Equal(t, int64(9990), PlanAmount(model.PlanYearly))
}

func TestPlanAmountIgnoresBadOverride(t *testing.T) {
	t.Setenv("PRICE_MONTHLY_CENTS", "not-a-number")
	assert.Equal(t, int64(5000), PlanAmount(model.PlanMonthly))

	t.Setenv("PRICE_MONTHLY_CENTS", "-5")
	assert.Equal(t, int64(5000), PlanAmount(model.PlanMonthly))
}
