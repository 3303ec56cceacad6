package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	BookerID int64
	ItemID   int64
	Start    *time.Time
	End      *time.Time
}

// UserGetter loads users by id.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// ItemGetter loads items by id.
type ItemGetter interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	UpdateStatus(ctx context.Context, userID, bookingID int64, approved bool) (*Booking, error)
	Get(ctx context.Context, userID, bookingID int64) (*Booking, error)
	ListForBooker(ctx context.Context, userID int64, state string, from, size int) ([]*Booking, error)
	ListForOwner(ctx context.Context, userID int64, state string, from, size int) ([]*Booking, error)

	// Neighbours returns, per item of the owner, the last and next approved bookings.
	Neighbours(ctx context.Context, ownerID int64) (map[int64]Neighbours, error)
	// LastFinished returns the approved booking of bookerID on itemID that ended most recently.
	// It returns ErrNotFound if there is none.
	LastFinished(ctx context.Context, itemID, bookerID int64) (*Booking, error)
}

type service struct {
	repo  Repository
	users UserGetter
	items ItemGetter
	clock clock.Clock
}

func NewService(repo Repository, users UserGetter, items ItemGetter, clk clock.Clock) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", req.BookerID).Int64("item_id", req.ItemID).Msg("create booking")

	booker, err := s.users.GetByID(ctx, req.BookerID)
	if err != nil {
		return nil, err
	}
	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID == booker.ID {
		return nil, ErrOwnItem
	}
	if !it.Available {
		return nil, ErrNotAvailable
	}
	if err := validateWindow(req.Start, req.End, s.clock.Now()); err != nil {
		return nil, err
	}

	b := &Booking{
		ItemID:     it.ID,
		ItemName:   it.Name,
		OwnerID:    it.OwnerID,
		BookerID:   booker.ID,
		BookerName: booker.Name,
		Start:      *req.Start,
		End:        *req.End,
		Status:     StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	metrics.IncBookingTransition(string(b.Status))
	return b, nil
}

// validateWindow requires both dates, a start strictly after now and strictly before end.
func validateWindow(start, end *time.Time, now time.Time) error {
	if start == nil || end == nil {
		return ErrWrongDate
	}
	if !start.After(now) {
		return ErrWrongDate
	}
	if !start.Before(*end) {
		return ErrWrongDate
	}
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, userID, bookingID int64, approved bool) (*Booking, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", userID).Int64("booking_id", bookingID).Bool("approved", approved).Msg("update booking status")

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, ErrAlreadyDecided
	}
	if b.OwnerID != userID {
		return nil, ErrNotOwner
	}

	next := StatusRejected
	if approved {
		next = StatusApproved
	}

	// The store only applies the change while the booking is still WAITING.
	if err := s.repo.UpdateStatus(ctx, b.ID, StatusWaiting, next); err != nil {
		return nil, err
	}
	b.Status = next

	metrics.IncBookingTransition(string(next))
	return b, nil
}

func (s *service) Get(ctx context.Context, userID, bookingID int64) (*Booking, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", userID).Int64("booking_id", bookingID).Msg("get booking")

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != userID && b.BookerID != userID {
		return nil, ErrNotParticipant
	}
	return b, nil
}

func (s *service) ListForBooker(ctx context.Context, userID int64, state string, from, size int) ([]*Booking, error) {
	return s.list(ctx, ScopeBooker, userID, state, from, size)
}

func (s *service) ListForOwner(ctx context.Context, userID int64, state string, from, size int) ([]*Booking, error) {
	return s.list(ctx, ScopeOwner, userID, state, from, size)
}

// list validates the state, then the pagination, then the user, and fails before
// touching the bookings table on any of them.
func (s *service) list(ctx context.Context, scope Scope, userID int64, state string, from, size int) ([]*Booking, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", userID).Str("state", state).Int("scope", int(scope)).Msg("list bookings")

	st, err := ParseState(state)
	if err != nil {
		return nil, err
	}
	page, err := pagination.New(from, size)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, Filter{
		Scope:  scope,
		UserID: userID,
		State:  st,
		Now:    s.clock.Now(),
		Page:   page,
	})
}

func (s *service) Neighbours(ctx context.Context, ownerID int64) (map[int64]Neighbours, error) {
	return s.repo.Neighbours(ctx, ownerID, s.clock.Now())
}

func (s *service) LastFinished(ctx context.Context, itemID, bookerID int64) (*Booking, error) {
	return s.repo.LastFinished(ctx, itemID, bookerID, s.clock.Now())
}
