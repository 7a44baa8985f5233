package externals

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"travelbuddy-server/model"
)

const (
	defaultPriceMonthlyCents = 5000  // $50
	defaultPriceYearlyCents  = 50000 // $500
)

// InitStripe configures the stripe client. Must be called before any
// payment endpoint is served.
func InitStripe() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

// PlanAmount returns the charge in cents for a subscription plan,
// overridable through PRICE_MONTHLY_CENTS / PRICE_YEARLY_CENTS.
func PlanAmount(plan string) int64 {
	if plan == model.PlanYearly {
		return amountFromEnv("PRICE_YEARLY_CENTS", defaultPriceYearlyCents)
	}
	return amountFromEnv("PRICE_MONTHLY_CENTS", defaultPriceMonthlyCents)
}

func amountFromEnv(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func clientURL() string {
	if v := os.Getenv("CLIENT_URL"); v != "" {
		return v
	}
	return "http://localhost:3000"
}

// CreateCheckoutSession opens a one-off checkout session for a
// subscription purchase. The user id and plan travel in the session
// metadata and come back to us in the webhook.
func CreateCheckoutSession(userID, plan string) (*stripe.CheckoutSession, error) {
	amount := PlanAmount(plan)
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("TravelBuddy Subscription (%s)", strings.ToLower(plan))),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(clientURL() + "/payments/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(clientURL() + "/payments/cancel"),
	}
	params.AddMetadata("userId", userID)
	params.AddMetadata("plan", plan)

	return session.New(params)
}

// GetCheckoutSession fetches a checkout session for active
// verification.
func GetCheckoutSession(sessionID string) (*stripe.CheckoutSession, error) {
	return session.Get(sessionID, nil)
}

// ConstructWebhookEvent verifies the signature over the raw webhook
// body and decodes the event.
func ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, os.Getenv("STRIPE_WEBHOOK_SECRET"))
}
