package booking

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type userMap map[int64]*user.User

func (m userMap) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type itemMap map[int64]*item.Item

func (m itemMap) GetByID(_ context.Context, id int64) (*item.Item, error) {
	it, ok := m[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return it, nil
}

// memRepository keeps bookings in memory and evaluates filters the way the SQL does.
type memRepository struct {
	bookings []*Booking
	listed   int
}

func (r *memRepository) Create(_ context.Context, b *Booking) error {
	b.ID = int64(len(r.bookings) + 1)
	cp := *b
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *memRepository) GetByID(_ context.Context, id int64) (*Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepository) UpdateStatus(_ context.Context, id int64, from, to Status) error {
	for _, b := range r.bookings {
		if b.ID == id {
			if b.Status != from {
				return ErrAlreadyDecided
			}
			b.Status = to
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepository) List(_ context.Context, f Filter) ([]*Booking, error) {
	r.listed++
	var out []*Booking
	for _, b := range r.bookings {
		if f.Scope == ScopeOwner && b.OwnerID != f.UserID {
			continue
		}
		if f.Scope == ScopeBooker && b.BookerID != f.UserID {
			continue
		}
		if !inState(b, f.State, f.Now) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })

	start := int(f.Page.Offset())
	if start >= len(out) {
		return nil, nil
	}
	end := start + f.Page.Size
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func inState(b *Booking, st State, now time.Time) bool {
	switch st {
	case StateCurrent:
		return b.Start.Before(now) && b.End.After(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	}
	return true
}

func (r *memRepository) Neighbours(_ context.Context, ownerID int64, now time.Time) (map[int64]Neighbours, error) {
	out := map[int64]Neighbours{}
	for _, b := range r.bookings {
		if b.OwnerID != ownerID || b.Status != StatusApproved {
			continue
		}
		n := out[b.ItemID]
		if b.Start.Before(now) && (n.Last == nil || b.Start.After(n.Last.Start)) {
			n.Last = b
		}
		if b.Start.After(now) && (n.Next == nil || b.Start.Before(n.Next.Start)) {
			n.Next = b
		}
		out[b.ItemID] = n
	}
	return out, nil
}

func (r *memRepository) LastFinished(_ context.Context, itemID, bookerID int64, now time.Time) (*Booking, error) {
	var found *Booking
	for _, b := range r.bookings {
		if b.ItemID == itemID && b.BookerID == bookerID && b.Status == StatusApproved && b.End.Before(now) {
			if found == nil || b.End.After(found.End) {
				found = b
			}
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

type fixture struct {
	svc   Service
	repo  *memRepository
	clock *clock.FixedClock
}

// newFixture sets up owner 1, booker 2 and bystander 3; item 10 (available)
// and item 11 (unavailable), both owned by 1.
func newFixture() *fixture {
	users := userMap{
		1: {ID: 1, Name: "owner"},
		2: {ID: 2, Name: "booker"},
		3: {ID: 3, Name: "bystander"},
	}
	items := itemMap{
		10: {ID: 10, Name: "Drill", OwnerID: 1, Available: true},
		11: {ID: 11, Name: "Saw", OwnerID: 1, Available: false},
	}
	repo := &memRepository{}
	clk := clock.Fixed(t0)
	return &fixture{
		svc:   NewService(repo, users, items, clk),
		repo:  repo,
		clock: clk,
	}
}

func at(d time.Duration) *time.Time {
	t := t0.Add(d)
	return &t
}

// after returns the instant d after the fixture clock's current time.
func (f *fixture) after(d time.Duration) *time.Time {
	t := f.clock.Now().Add(d)
	return &t
}

const day = 24 * time.Hour

func (f *fixture) book(t *testing.T, bookerID, itemID int64, start, end time.Duration) *Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), CreateRequest{
		BookerID: bookerID, ItemID: itemID, Start: f.after(start), End: f.after(end),
	})
	require.NoError(t, err)
	return b
}

func TestLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	b := f.book(t, 2, 10, day, 2*day)
	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, "Drill", b.ItemName)
	assert.Equal(t, "booker", b.BookerName)

	approved, err := f.svc.UpdateStatus(ctx, 1, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	_, err = f.svc.UpdateStatus(ctx, 1, b.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
	assert.Equal(t, apperror.KindNotAllowedAction, apperror.KindOf(err))

	stored, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
}

func TestRejectedIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.book(t, 2, 10, day, 2*day)

	rejected, err := f.svc.UpdateStatus(ctx, 1, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	for _, approve := range []bool{true, false} {
		_, err := f.svc.UpdateStatus(ctx, 1, b.ID, approve)
		assert.ErrorIs(t, err, ErrAlreadyDecided)
	}
}

func TestCreatePreconditionOrder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
		want error
		kind apperror.Kind
	}{
		{"unknown user wins over everything", CreateRequest{BookerID: 99, ItemID: 404}, user.ErrNotFound, apperror.KindUserNotFound},
		{"unknown item", CreateRequest{BookerID: 2, ItemID: 404}, item.ErrNotFound, apperror.KindItemNotFound},
		{"owner is masked as unknown user", CreateRequest{BookerID: 1, ItemID: 11}, ErrOwnItem, apperror.KindUserNotFound},
		{"unavailable item before dates", CreateRequest{BookerID: 2, ItemID: 11}, ErrNotAvailable, apperror.KindNotAvailable},
		{"missing dates", CreateRequest{BookerID: 2, ItemID: 10}, ErrWrongDate, apperror.KindWrongDate},
		{"missing end", CreateRequest{BookerID: 2, ItemID: 10, Start: at(day)}, ErrWrongDate, apperror.KindWrongDate},
		{"start in the past", CreateRequest{BookerID: 2, ItemID: 10, Start: at(-time.Hour), End: at(day)}, ErrWrongDate, apperror.KindWrongDate},
		{"start equals now", CreateRequest{BookerID: 2, ItemID: 10, Start: at(0), End: at(day)}, ErrWrongDate, apperror.KindWrongDate},
		{"start equals end", CreateRequest{BookerID: 2, ItemID: 10, Start: at(day), End: at(day)}, ErrWrongDate, apperror.KindWrongDate},
		{"start after end", CreateRequest{BookerID: 2, ItemID: 10, Start: at(2 * day), End: at(day)}, ErrWrongDate, apperror.KindWrongDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
			assert.Empty(t, f.repo.bookings, "nothing may be persisted")
		})
	}
}

func TestOwnItemIsNotInvalidUser(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), CreateRequest{BookerID: 1, ItemID: 10, Start: at(day), End: at(2 * day)})
	assert.ErrorIs(t, err, ErrOwnItem)
	assert.NotErrorIs(t, err, user.ErrNotFound)
	assert.NotEqual(t, apperror.KindInvalidUser, apperror.KindOf(err))
}

func TestUpdateStatusPreconditionOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.book(t, 2, 10, day, 2*day)

	_, err := f.svc.UpdateStatus(ctx, 99, b.ID, true)
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = f.svc.UpdateStatus(ctx, 1, 404, true)
	assert.ErrorIs(t, err, ErrNotFound)

	// The booker cannot approve their own booking.
	_, err = f.svc.UpdateStatus(ctx, 2, b.ID, true)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, apperror.KindInvalidUser, apperror.KindOf(err))

	// Once decided, the terminal guard fires before the owner check.
	_, err = f.svc.UpdateStatus(ctx, 1, b.ID, true)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, 3, b.ID, true)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.book(t, 2, 10, day, 2*day)

	for _, uid := range []int64{1, 2} {
		got, err := f.svc.Get(ctx, uid, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	}

	_, err := f.svc.Get(ctx, 3, b.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.Equal(t, apperror.KindInvalidUser, apperror.KindOf(err))

	_, err = f.svc.Get(ctx, 3, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Get(ctx, 99, b.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

// seedTimeline creates one booking per temporal bucket relative to t0.
// Bookings are made while the clock reads t0-10d, so offsets count from there.
// IDs: 1 past, 2 current, 3 future(waiting), 4 future(rejected), 5 starts exactly at t0.
func seedTimeline(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()

	f.clock.Set(t0.Add(-10 * day))
	past := f.book(t, 2, 10, day, 2*day)         // t0-9d .. t0-8d
	current := f.book(t, 2, 10, 9*day, 11*day)   // t0-1d .. t0+1d
	f.book(t, 2, 10, 12*day, 13*day)             // t0+2d .. t0+3d
	rejected := f.book(t, 2, 10, 14*day, 15*day) // t0+4d .. t0+5d
	f.book(t, 2, 10, 10*day, 10*day+time.Hour)   // t0 .. t0+1h
	for _, id := range []int64{past.ID, current.ID} {
		_, err := f.svc.UpdateStatus(ctx, 1, id, true)
		require.NoError(t, err)
	}
	_, err := f.svc.UpdateStatus(ctx, 1, rejected.ID, false)
	require.NoError(t, err)

	f.clock.Set(t0)
}

func ids(list []*Booking) []int64 {
	out := make([]int64, len(list))
	for i, b := range list {
		out[i] = b.ID
	}
	return out
}

func TestListStates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedTimeline(t, f)

	tests := []struct {
		state string
		want  []int64
	}{
		{"ALL", []int64{4, 3, 5, 2, 1}},
		{"CURRENT", []int64{2}},
		{"PAST", []int64{1}},
		{"FUTURE", []int64{4, 3}},
		{"WAITING", []int64{3, 5}},
		{"REJECTED", []int64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			byBooker, err := f.svc.ListForBooker(ctx, 2, tt.state, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(byBooker))

			byOwner, err := f.svc.ListForOwner(ctx, 1, tt.state, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(byOwner))
		})
	}
}

func TestListCurrentIsStrictlyInside(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedTimeline(t, f)
	now := f.clock.Now()

	list, err := f.svc.ListForBooker(ctx, 2, "CURRENT", 0, 10)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for _, b := range list {
		assert.True(t, b.Start.Before(now) && b.End.After(now), "booking %d", b.ID)
	}
}

func TestListScopes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.book(t, 2, 10, day, 2*day)

	asOwnerOfNothing, err := f.svc.ListForOwner(ctx, 2, "ALL", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, asOwnerOfNothing)

	asBookerOfNothing, err := f.svc.ListForBooker(ctx, 1, "ALL", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, asBookerOfNothing)
}

func TestListValidationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.ListForBooker(ctx, 99, "all", -1, 0)
	assert.ErrorIs(t, err, ErrUnknownState)
	assert.Equal(t, "Unknown state: all", err.Error())
	assert.Equal(t, apperror.KindInvalidStatus, apperror.KindOf(err))

	for _, state := range []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
		for _, p := range [][2]int{{-1, 10}, {0, 0}, {0, -5}} {
			_, err := f.svc.ListForOwner(ctx, 99, state, p[0], p[1])
			assert.ErrorIs(t, err, pagination.ErrIncorrect, "%s from=%d size=%d", state, p[0], p[1])
		}
	}

	_, err = f.svc.ListForBooker(ctx, 99, "ALL", 0, 10)
	assert.ErrorIs(t, err, user.ErrNotFound)

	assert.Zero(t, f.repo.listed, "store must not be queried on validation failure")
}

func TestListPaginationUsesPageIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedTimeline(t, f)

	// from=3,size=2 is page 1: the 3rd and 4th newest.
	list, err := f.svc.ListForBooker(ctx, 2, "ALL", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 2}, ids(list))
}

func TestNeighboursAndLastFinished(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedTimeline(t, f)

	n, err := f.svc.Neighbours(ctx, 1)
	require.NoError(t, err)
	require.Contains(t, n, int64(10))
	require.NotNil(t, n[10].Last)
	assert.Equal(t, int64(2), n[10].Last.ID)
	assert.Nil(t, n[10].Next, "future bookings are not approved")

	last, err := f.svc.LastFinished(ctx, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), last.ID)

	_, err = f.svc.LastFinished(ctx, 10, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeededTimelineStraddlesNow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedTimeline(t, f)

	all, err := f.svc.ListForBooker(ctx, 2, "ALL", 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 5)

	byID := make(map[int64]*Booking, len(all))
	for _, b := range all {
		byID[b.ID] = b
	}
	assert.Equal(t, t0.Add(-9*day), byID[1].Start)
	assert.Equal(t, t0.Add(-day), byID[2].Start)
	assert.Equal(t, t0.Add(day), byID[2].End)
	assert.Equal(t, t0, byID[5].Start)

	past, err := f.svc.ListForOwner(ctx, 1, "PAST", 0, 10)
	require.NoError(t, err)
	for _, b := range past {
		assert.True(t, b.End.Before(t0), "booking %d", b.ID)
	}
	require.NotEmpty(t, past)
}
