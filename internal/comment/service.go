package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserGetter loads users by id.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// ItemGetter loads items by id.
type ItemGetter interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
}

// BookingFinder finds the booking that entitles a user to comment on an item.
type BookingFinder interface {
	LastFinished(ctx context.Context, itemID, bookerID int64) (*booking.Booking, error)
}

type Service interface {
	Create(ctx context.Context, authorID, itemID int64, text string) (*Comment, error)
	ListByItem(ctx context.Context, itemID int64) ([]*Comment, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Comment, error)
}

type service struct {
	repo     Repository
	users    UserGetter
	items    ItemGetter
	bookings BookingFinder
	clock    clock.Clock
}

func NewService(repo Repository, users UserGetter, items ItemGetter, bookings BookingFinder, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		users:    users,
		items:    items,
		bookings: bookings,
		clock:    clk,
	}
}

// Create stores a comment from a user who has an approved booking of the item that already ended.
func (s *service) Create(ctx context.Context, authorID, itemID int64, text string) (*Comment, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", authorID).Int64("item_id", itemID).Msg("create comment")

	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankText
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	if _, err := s.bookings.LastFinished(ctx, itemID, authorID); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, ErrNoFinishedBooking
		}
		return nil, err
	}

	c := &Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListByItem(ctx context.Context, itemID int64) ([]*Comment, error) {
	return s.repo.ListByItem(ctx, itemID)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64) ([]*Comment, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
