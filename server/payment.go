package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelbuddy-server/externals"
	"travelbuddy-server/model"
	"travelbuddy-server/server/middlewares"
	"travelbuddy-server/utils"
	"travelbuddy-server/utils/log"
)

// CreateCheckoutSession opens a payment session for a subscription
// plan and returns its redirect URL.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var input struct {
		Plan string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !model.ValidSubscriptionPlan(input.Plan) {
		c.Error(utils.BadRequest("plan must be MONTHLY or YEARLY"))
		return
	}

	sess, err := externals.CreateCheckoutSession(middlewares.CurrentUserID(c), input.Plan)
	if err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "checkout session created successfully", gin.H{
		"sessionId": sess.ID,
		"url":       sess.URL,
	})
}

// VerifyCheckoutSession confirms a completed session from the client
// side. Reconciliation is idempotent, so a session already settled by
// the webhook is simply confirmed.
func (h *Handler) VerifyCheckoutSession(c *gin.Context) {
	sess, err := externals.GetCheckoutSession(c.Param("sessionId"))
	if err != nil {
		c.Error(utils.NotFound("checkout session not found"))
		return
	}
	if sess.Metadata["userId"] != middlewares.CurrentUserID(c) {
		c.Error(utils.Forbidden("this checkout session belongs to another user"))
		return
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		c.JSON(http.StatusOK, utils.Envelope{
			Success: false,
			Message: "this checkout session has not been paid",
			Data: gin.H{
				"paymentStatus": sess.PaymentStatus,
				"url":           sess.URL,
			},
		})
		return
	}

	subscription, err := h.reconcileCheckoutSession(h.DB, sess)
	if err != nil {
		c.Error(err)
		return
	}

	var user model.User
	if err := h.DB.First(&user, "id = ?", subscription.UserID).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "payment verified successfully", gin.H{
		"subscription": subscription,
		"user":         user,
	})
}

// StripeWebhook handles payment-processor callbacks. The signature is
// verified over the raw body, and the event id is recorded in a durable
// table in the same transaction that settles the event: a replayed
// delivery is a no-op, and a crash mid-processing rolls the dedup row
// back with everything else so the processor's retry starts clean.
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(utils.BadRequest("unreadable webhook payload"))
		return
	}

	event, err := externals.ConstructWebhookEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		c.Error(utils.BadRequest("invalid webhook signature"))
		return
	}

	replayed := false
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		dedup := model.WebhookEvent{EventID: event.ID, EventType: string(event.Type)}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dedup)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Replay of an event we already processed.
			replayed = true
			return nil
		}

		switch event.Type {
		case "checkout.session.completed":
			var sess stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
				return utils.BadRequest("malformed checkout session payload")
			}
			_, err := h.reconcileCheckoutSession(tx, &sess)
			return err
		case "payment_intent.payment_failed", "invoice.payment_failed":
			h.markPaymentFailed(tx, event.Data.Raw)
		default:
			log.Log.WithField("eventType", event.Type).Info("ignoring unhandled webhook event")
		}
		return nil
	})
	if err != nil {
		c.Error(err)
		return
	}

	if replayed {
		utils.SendResponse(c, http.StatusOK, "event already processed", gin.H{
			"received":   true,
			"idempotent": true,
		})
		return
	}
	utils.SendResponse(c, http.StatusOK, "event processed successfully", gin.H{"received": true})
}

// markPaymentFailed flips a known payment row to FAILED when a failure
// event references it. Failures for sessions we never recorded are
// ignored; the event object id is the best transaction-id guess we
// have.
func (h *Handler) markPaymentFailed(db *gorm.DB, raw json.RawMessage) {
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.ID == "" {
		return
	}
	result := db.Model(&model.Payment{}).
		Where("transaction_id = ?", obj.ID).
		Update("status", model.PaymentStatusFailed)
	if result.Error != nil {
		log.Log.WithError(result.Error).Warn("failed to mark payment as failed")
		return
	}
	if result.RowsAffected > 0 {
		log.Log.WithField("transactionId", obj.ID).Info("payment marked as failed")
	}
}

func subscriptionPeriod(plan string, from time.Time) time.Time {
	if plan == model.PlanYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 0, 30)
}

// reconcileCheckoutSession settles a paid session: one payment row per
// transaction id, a subscription upserted per user, and the verified
// badge on the account. Safe to run more than once for the same
// session; the unique transaction id makes the second run a no-op.
// Runs inside the given handle, so a caller already in a transaction
// gets a savepoint instead of a second commit.
func (h *Handler) reconcileCheckoutSession(db *gorm.DB, sess *stripe.CheckoutSession) (*model.Subscription, error) {
	userID := sess.Metadata["userId"]
	plan := sess.Metadata["plan"]
	if userID == "" || !model.ValidSubscriptionPlan(plan) {
		return nil, errors.Errorf("checkout session %s is missing user or plan metadata", sess.ID)
	}

	var subscription model.Subscription
	err := db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		amount := sess.AmountTotal
		if amount == 0 {
			amount = externals.PlanAmount(plan)
		}

		payment := model.Payment{
			Amount:        amount,
			Status:        model.PaymentStatusSuccess,
			TransactionID: sess.ID,
			Purpose:       "SUBSCRIPTION",
			UserID:        userID,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&payment)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already reconciled by a concurrent webhook or verify call.
			return tx.First(&subscription, "user_id = ?", userID).Error
		}

		now := time.Now()
		subscription = model.Subscription{
			Plan:      plan,
			StartDate: now,
			EndDate:   subscriptionPeriod(plan, now),
			IsActive:  true,
			Price:     amount,
			UserID:    userID,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"plan", "start_date", "end_date", "is_active", "price", "updated_at"}),
		}).Create(&subscription).Error; err != nil {
			return err
		}
		// Re-read to pick up the stored row id; on the conflict path the
		// struct keeps a freshly generated id that never hit the table.
		if err := tx.First(&subscription, "user_id = ?", userID).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Payment{}).
			Where("transaction_id = ?", sess.ID).
			Update("subscription_id", subscription.ID).Error; err != nil {
			return err
		}

		return tx.Model(&user).Update("verified_badge", true).Error
	})
	if err != nil {
		return nil, err
	}

	log.Log.WithField("userId", userID).WithField("plan", plan).Info("subscription reconciled")
	return &subscription, nil
}

// MyPayments lists the caller's payment history, newest first.
func (h *Handler) MyPayments(c *gin.Context) {
	var payments []model.Payment
	if err := h.DB.
		Where("user_id = ?", middlewares.CurrentUserID(c)).
		Order("created_at desc").
		Find(&payments).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "payments fetched successfully", payments)
}

// MySubscription returns the caller's subscription, flagged inactive
// once the paid period has lapsed.
func (h *Handler) MySubscription(c *gin.Context) {
	var subscription model.Subscription
	if err := h.DB.First(&subscription, "user_id = ?", middlewares.CurrentUserID(c)).Error; err != nil {
		c.Error(err)
		return
	}

	if subscription.IsActive && subscription.EndDate.Before(time.Now()) {
		if err := h.DB.Model(&subscription).Update("is_active", false).Error; err != nil {
			c.Error(err)
			return
		}
	}
	utils.SendResponse(c, http.StatusOK, "subscription fetched successfully", subscription)
}
