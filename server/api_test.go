package server

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"

	"travelbuddy-server/externals"
	"travelbuddy-server/model"
	"travelbuddy-server/utils"
	"travelbuddy-server/utils/dotenv"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	gin.SetMode(gin.TestMode)
	os.Setenv("ACCESS_TOKEN_SECRET", "test-access-secret")
	os.Setenv("REFRESH_TOKEN_SECRET", "test-refresh-secret")
	os.Setenv("BCRYPT_COST", "4")
	os.Exit(m.Run())
}

func newTestRouter(db *gorm.DB) *gin.Engine {
	return SetupRouter(db, externals.FakeImageStore{})
}

func createTestUser(t *testing.T, db *gorm.DB, email string, interests ...string) *model.User {
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	user := &model.User{
		FullName:  "Test " + email,
		Email:     email,
		Password:  hash,
		Interests: pq.StringArray(interests),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func bearerFor(t *testing.T, user *model.User) string {
	pair, err := utils.GenerateTokenPair(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func performRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createTestPlan(t *testing.T, db *gorm.DB, userID, destination, start, end string) *model.TravelPlan {
	plan := &model.TravelPlan{
		Destination: destination,
		StartDate:   date(start),
		EndDate:     date(end),
		TravelType:  model.TravelTypeAdventure,
		IsPublic:    model.VisibilityPublic,
		UserID:      userID,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

func TestSignupAndLogin(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(db)

	w := performRequest(router, http.MethodPost, "/api/v1/user/create-user", "", gin.H{
		"fullName": "Ada Traveler",
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate email is a conflict, not a crash.
	w = performRequest(router, http.MethodPost, "/api/v1/user/create-user", "", gin.H{
		"fullName": "Ada Again",
		"email":    "ada@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBannedUserCannotLogin(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(db)

	user := createTestUser(t, db, "banned@example.com")
	require.NoError(t, db.Model(user).Update("user_status", model.UserStatusBanned).Error)

	w := performRequest(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "banned@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTravelPlanDateInvariant(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(db)
	user := createTestUser(t, db, "dates@example.com")

	w := performRequest(router, http.MethodPost, "/api/v1/travelPlans", bearerFor(t, user), gin.H{
		"destination": "Lisbon",
		"startDate":   "2026-06-10T00:00:00Z",
		"endDate":     "2026-06-01T00:00:00Z",
		"travelType":  model.TravelTypeLeisure,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodPost, "/api/v1/travelPlans", bearerFor(t, user), gin.H{
		"destination": "Lisbon",
		"startDate":   "2026-06-01T00:00:00Z",
		"endDate":     "2026-06-10T00:00:00Z",
		"travelType":  model.TravelTypeLeisure,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestJoinRequestDuplicateIsConflict(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(db)

	owner := createTestUser(t, db, "owner@example.com")
	requester := createTestUser(t, db, "requester@example.com")
	plan := createTestPlan(t, db, owner.ID, "Lisbon", "2026-06-01", "2026-06-10")

	path := fmt.Sprintf("/api/v1/travelPlans/%s/request", plan.ID)
	w := performRequest(router, http.MethodPost, path, bearerFor(t, requester), gin.H{"message": "let me in"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(router, http.MethodPost, path, bearerFor(t, requester), gin.H{"message": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The owner cannot request their own plan.
	w = performRequest(router, http.MethodPost, path, bearerFor(t, owner), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&model.TravelPlanRequest{}).Where("travel_plan_id = ?", plan.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerateMatchesIsIdempotent(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(db)

	owner := createTestUser(t, db, "matcher@example.com", "hiking", "food")
	buddy := createTestUser(t, db, "buddy@example.com", "hiking", "surfing")
	stranger := createTestUser(t, db, "stranger@example.com")

	plan := createTestPlan(t, db, owner.ID, "Lisbon", "2026-06-01", "2026-06-10")
	// Overlaps 2026-06-08..2026-06-10 inclusive, 3 days, 1 shared interest.
	createTestPlan(t, db, buddy.ID, "Lisbon", "2026-06-08", "2026-06-15")
	// Same destination, disjoint dates: no match.
	createTestPlan(t, db, stranger.ID, "Lisbon", "2026-07-01", "2026-07-10")

	path := fmt.Sprintf("/api/v1/travelMatches/%s/matches/generate", plan.ID)
	w := performRequest(router, http.MethodPost, path, bearerFor(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A non-owner cannot trigger generation.
	w = performRequest(router, http.MethodPost, path, bearerFor(t, buddy), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Rerun by the owner updates in place instead of duplicating rows.
	w = performRequest(router, http.MethodPost, path, bearerFor(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var matches []model.TravelMatch
	require.NoError(t, db.Where("travel_plan_id = ?", plan.ID).Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, buddy.ID, matches[0].MatchedUserID)
	assert.Equal(t, matchScore(3, 1), matches[0].MatchScore)
}

func TestMeetupCapacityAndHostRules(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(db)

	host := createTestUser(t, db, "host@example.com")
	first := createTestUser(t, db, "first@example.com")
	second := createTestUser(t, db, "second@example.com")

	maxPeople := 1
	meetup := &model.Meetup{
		Title:     "Sunset hike",
		Location:  "Lisbon",
		Date:      time.Now().Add(48 * time.Hour),
		MaxPeople: &maxPeople,
		HostID:    host.ID,
	}
	require.NoError(t, db.Create(meetup).Error)

	path := fmt.Sprintf("/api/v1/meetups/%s/join", meetup.ID)

	// The host cannot join their own meetup.
	w := performRequest(router, http.MethodPost, path, bearerFor(t, host), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodPost, path, bearerFor(t, first), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Joining twice is a conflict.
	w = performRequest(router, http.MethodPost, path, bearerFor(t, first), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Capacity of one is already taken.
	w = performRequest(router, http.MethodPost, path, bearerFor(t, second), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Leaving frees the spot.
	leavePath := fmt.Sprintf("/api/v1/meetups/%s/leave", meetup.ID)
	w = performRequest(router, http.MethodDelete, leavePath, bearerFor(t, first), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = performRequest(router, http.MethodPost, path, bearerFor(t, second), nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReviewRequiresEndedPlan(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(db)

	reviewer := createTestUser(t, db, "reviewer@example.com")
	receiver := createTestUser(t, db, "receiver@example.com")

	future := &model.TravelPlan{
		Destination: "Lisbon",
		StartDate:   time.Now().Add(24 * time.Hour),
		EndDate:     time.Now().Add(72 * time.Hour),
		TravelType:  model.TravelTypeLeisure,
		UserID:      receiver.ID,
	}
	require.NoError(t, db.Create(future).Error)

	w := performRequest(router, http.MethodPost, "/api/v1/reviews", bearerFor(t, reviewer), gin.H{
		"rating":       5,
		"receiverId":   receiver.ID,
		"travelPlanId": future.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	past := &model.TravelPlan{
		Destination: "Porto",
		StartDate:   time.Now().Add(-96 * time.Hour),
		EndDate:     time.Now().Add(-24 * time.Hour),
		TravelType:  model.TravelTypeLeisure,
		UserID:      receiver.ID,
	}
	require.NoError(t, db.Create(past).Error)

	w = performRequest(router, http.MethodPost, "/api/v1/reviews", bearerFor(t, reviewer), gin.H{
		"rating":       4,
		"receiverId":   receiver.ID,
		"travelPlanId": past.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Self reviews are rejected.
	w = performRequest(router, http.MethodPost, "/api/v1/reviews", bearerFor(t, reviewer), gin.H{
		"rating":     5,
		"receiverId": reviewer.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReactionUpsertReplacesType(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(db)

	author := createTestUser(t, db, "author@example.com")
	reader := createTestUser(t, db, "reader@example.com")

	post := &model.Post{Content: "hello from Lisbon", UserID: author.ID}
	require.NoError(t, db.Create(post).Error)

	path := fmt.Sprintf("/api/v1/posts/%s/react", post.ID)
	w := performRequest(router, http.MethodPost, path, bearerFor(t, reader), gin.H{"type": model.ReactionLike})
	require.Equal(t, http.StatusOK, w.Code)
	w = performRequest(router, http.MethodPost, path, bearerFor(t, reader), gin.H{"type": model.ReactionLove})
	require.Equal(t, http.StatusOK, w.Code)

	var reactions []model.PostReaction
	require.NoError(t, db.Where("post_id = ?", post.ID).Find(&reactions).Error)
	require.Len(t, reactions, 1)
	assert.Equal(t, model.ReactionLove, reactions[0].Type)
}

func TestReconcileCheckoutSessionIsIdempotent(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	h := NewHandler(db, nil)

	user := createTestUser(t, db, "payer@example.com")

	sess := &stripe.CheckoutSession{
		ID:          "cs_test_123",
		AmountTotal: 5000,
		Metadata:    map[string]string{"userId": user.ID, "plan": model.PlanMonthly},
	}

	sub, err := h.reconcileCheckoutSession(db, sess)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.True(t, sub.IsActive)
	assert.Equal(t, model.PlanMonthly, sub.Plan)

	// The same session settles once, no matter how often it is replayed.
	sub2, err := h.reconcileCheckoutSession(db, sess)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, sub2.ID)

	var payments int64
	require.NoError(t, db.Model(&model.Payment{}).Where("transaction_id = ?", sess.ID).Count(&payments).Error)
	assert.Equal(t, int64(1), payments)

	var refreshed model.User
	require.NoError(t, db.First(&refreshed, "id = ?", user.ID).Error)
	assert.True(t, refreshed.VerifiedBadge)

	// An upgrade through a new session replaces the subscription terms.
	yearly := &stripe.CheckoutSession{
		ID:          "cs_test_456",
		AmountTotal: 50000,
		Metadata:    map[string]string{"userId": user.ID, "plan": model.PlanYearly},
	}
	sub3, err := h.reconcileCheckoutSession(db, yearly)
	require.NoError(t, err)
	assert.Equal(t, model.PlanYearly, sub3.Plan)

	var subscriptions int64
	require.NoError(t, db.Model(&model.Subscription{}).Where("user_id = ?", user.ID).Count(&subscriptions).Error)
	assert.Equal(t, int64(1), subscriptions)
}

// stripeSignature builds a Stripe-Signature header over a raw payload,
// the same t=...,v1=... scheme the webhook verifier checks.
func stripeSignature(secret string, payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(db)
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	user := createTestUser(t, db, "webhook@example.com")
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_replay_1","type":"checkout.session.completed","data":{"object":{"id":"cs_webhook_1","amount_total":5000,"payment_status":"paid","metadata":{"userId":%q,"plan":%q}}}}`,
		user.ID, model.PlanMonthly))

	deliver := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
		req.Header.Set("Stripe-Signature", stripeSignature("whsec_test", payload))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := deliver()
	require.Equal(t, http.StatusOK, w.Code)

	var payments int64
	require.NoError(t, db.Model(&model.Payment{}).Where("transaction_id = ?", "cs_webhook_1").Count(&payments).Error)
	require.Equal(t, int64(1), payments)

	// The second delivery of the same event id is answered without
	// touching the ledger again.
	w = deliver()
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Idempotent bool `json:"idempotent"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.Idempotent)

	require.NoError(t, db.Model(&model.Payment{}).Where("transaction_id = ?", "cs_webhook_1").Count(&payments).Error)
	assert.Equal(t, int64(1), payments)

	var events int64
	require.NoError(t, db.Model(&model.WebhookEvent{}).Where("event_id = ?", "evt_replay_1").Count(&events).Error)
	assert.Equal(t, int64(1), events)

	// A bad signature never reaches processing.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", stripeSignature("wrong-secret", payload))
	bad := httptest.NewRecorder()
	router.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}
