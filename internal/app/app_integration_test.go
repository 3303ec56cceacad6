package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/app"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	commentHttp "github.com/nekogravitycat/shareit-backend/internal/comment/http"
	"github.com/nekogravitycat/shareit-backend/internal/db"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	requestHttp "github.com/nekogravitycat/shareit-backend/internal/request/http"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

type testEnv struct {
	router *gin.Engine
	pool   *pgxpool.Pool
	clock  *clock.FixedClock
}

// newTestEnv wires the full application against TEST_DB_DSN. The test is
// skipped when no database is configured.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	_ = godotenv.Load("../../.env")
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, "TRUNCATE TABLE public.comments, public.bookings, public.items, public.requests, public.users RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	clk := clock.Fixed(time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC))
	container := app.NewContainer(app.Config{
		DBPool: pool,
		Logger: zerolog.Nop(),
		Clock:  clk,
	})

	return &testEnv{router: container.Router, pool: pool, clock: clk}
}

func (e *testEnv) do(method, path string, body any, userID int64) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(auth.HeaderSharerUserID, fmt.Sprint(userID))
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (e *testEnv) createUser(t *testing.T, name, email string) int64 {
	t.Helper()
	w := e.do(http.MethodPost, "/v1/users", userHttp.CreateUserRequest{Name: name, Email: email}, 0)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[userHttp.UserResponse](t, w).ID
}

func TestBookingLifecycle(t *testing.T) {
	e := newTestEnv(t)

	owner := e.createUser(t, "Owner", "owner@share.it")
	booker := e.createUser(t, "Booker", "booker@share.it")

	available := true
	w := e.do(http.MethodPost, "/v1/items", itemHttp.CreateItemRequest{
		Name: "Drill", Description: "Cordless drill", Available: &available,
	}, owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	itemID := decode[itemHttp.ItemResponse](t, w).ID

	now := e.clock.Now()
	start, end := now.Add(time.Hour), now.Add(2*time.Hour)

	t.Run("owner cannot book own item", func(t *testing.T) {
		w := e.do(http.MethodPost, "/v1/bookings", bookingHttp.CreateBookingRequest{ItemID: itemID, Start: &start, End: &end}, owner)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	w = e.do(http.MethodPost, "/v1/bookings", bookingHttp.CreateBookingRequest{ItemID: itemID, Start: &start, End: &end}, booker)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[bookingHttp.BookingResponse](t, w)
	assert.Equal(t, "WAITING", created.Status)
	assert.Equal(t, "Drill", created.Item.Name)

	t.Run("booker cannot approve", func(t *testing.T) {
		w := e.do(http.MethodPatch, fmt.Sprintf("/v1/bookings/%d?approved=true", created.ID), nil, booker)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	w = e.do(http.MethodPatch, fmt.Sprintf("/v1/bookings/%d?approved=true", created.ID), nil, owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "APPROVED", decode[bookingHttp.BookingResponse](t, w).Status)

	t.Run("decision is final", func(t *testing.T) {
		w := e.do(http.MethodPatch, fmt.Sprintf("/v1/bookings/%d?approved=false", created.ID), nil, owner)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("future state lists the booking", func(t *testing.T) {
		w := e.do(http.MethodGet, "/v1/bookings?state=FUTURE", nil, booker)
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[[]bookingHttp.BookingResponse](t, w)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)

		w = e.do(http.MethodGet, "/v1/bookings/owner?state=PAST", nil, owner)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]bookingHttp.BookingResponse](t, w))
	})

	t.Run("comment requires a finished booking", func(t *testing.T) {
		w := e.do(http.MethodPost, fmt.Sprintf("/v1/items/%d/comment", itemID), commentHttp.CreateCommentRequest{Text: "Great"}, booker)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	e.clock.Set(end.Add(time.Hour))

	w = e.do(http.MethodPost, fmt.Sprintf("/v1/items/%d/comment", itemID), commentHttp.CreateCommentRequest{Text: "Great"}, booker)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Booker", decode[commentHttp.CommentResponse](t, w).AuthorName)

	t.Run("owner sees annotations", func(t *testing.T) {
		w := e.do(http.MethodGet, fmt.Sprintf("/v1/items/%d", itemID), nil, owner)
		require.Equal(t, http.StatusOK, w.Code)
		view := decode[itemHttp.ItemViewResponse](t, w)
		require.NotNil(t, view.LastBooking)
		assert.Equal(t, created.ID, view.LastBooking.ID)
		assert.Nil(t, view.NextBooking)
		assert.Len(t, view.Comments, 1)
	})

	t.Run("other users see no annotations", func(t *testing.T) {
		w := e.do(http.MethodGet, fmt.Sprintf("/v1/items/%d", itemID), nil, booker)
		require.Equal(t, http.StatusOK, w.Code)
		view := decode[itemHttp.ItemViewResponse](t, w)
		assert.Nil(t, view.LastBooking)
		assert.Len(t, view.Comments, 1)
	})
}

func TestRequestAnsweredByItem(t *testing.T) {
	e := newTestEnv(t)

	requester := e.createUser(t, "Requester", "req@share.it")
	owner := e.createUser(t, "Owner", "own@share.it")

	w := e.do(http.MethodPost, "/v1/requests", requestHttp.CreateRequestRequest{Description: "Need a ladder"}, requester)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	requestID := decode[requestHttp.RequestResponse](t, w).ID

	available := true
	w = e.do(http.MethodPost, "/v1/items", itemHttp.CreateItemRequest{
		Name: "Ladder", Description: "Three metres", Available: &available, RequestID: &requestID,
	}, owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(http.MethodGet, fmt.Sprintf("/v1/requests/%d", requestID), nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[requestHttp.RequestResponse](t, w)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Ladder", got.Items[0].Name)

	w = e.do(http.MethodGet, "/v1/requests/all", nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]requestHttp.RequestResponse](t, w), 1)

	w = e.do(http.MethodGet, "/v1/requests/all", nil, requester)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]requestHttp.RequestResponse](t, w))

	w = e.do(http.MethodGet, "/v1/items/search?text=LADDER", nil, 0)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]itemHttp.ItemResponse](t, w), 1)
}

func TestDuplicateEmailConflict(t *testing.T) {
	e := newTestEnv(t)

	e.createUser(t, "A", "same@share.it")
	w := e.do(http.MethodPost, "/v1/users", userHttp.CreateUserRequest{Name: "B", Email: "SAME@share.it"}, 0)
	assert.Equal(t, http.StatusConflict, w.Code)
}
