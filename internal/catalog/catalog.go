// Package catalog builds item views annotated with booking and comment data.
package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// BookingRef is the short form of a booking shown next to an item.
type BookingRef struct {
	ID       int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

// ItemView is an item with its comments and, for the owner, its last and next bookings.
type ItemView struct {
	Item        *item.Item
	LastBooking *BookingRef
	NextBooking *BookingRef
	Comments    []*comment.Comment
}

type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ItemReader interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
	ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*item.Item, error)
}

type BookingNeighbours interface {
	Neighbours(ctx context.Context, ownerID int64) (map[int64]booking.Neighbours, error)
}

type CommentLister interface {
	ListByItem(ctx context.Context, itemID int64) ([]*comment.Comment, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*comment.Comment, error)
}

type Service interface {
	ListOwnerItems(ctx context.Context, userID int64, from, size int) ([]*ItemView, error)
	GetItem(ctx context.Context, userID, itemID int64) (*ItemView, error)
}

type service struct {
	users    UserChecker
	items    ItemReader
	bookings BookingNeighbours
	comments CommentLister
}

func NewService(users UserChecker, items ItemReader, bookings BookingNeighbours, comments CommentLister) Service {
	return &service{
		users:    users,
		items:    items,
		bookings: bookings,
		comments: comments,
	}
}

// ListOwnerItems returns a page of the user's items, each with its last and next
// approved booking and its comments. The user is checked before the pagination.
func (s *service) ListOwnerItems(ctx context.Context, userID int64, from, size int) ([]*ItemView, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", userID).Msg("get items of user")

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, user.ErrNotFound
	}
	page, err := pagination.New(from, size)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByOwner(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*ItemView{}, nil
	}

	neighbours, err := s.bookings.Neighbours(ctx, userID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	byItem := make(map[int64][]*comment.Comment)
	for _, c := range comments {
		byItem[c.ItemID] = append(byItem[c.ItemID], c)
	}

	views := make([]*ItemView, len(items))
	for i, it := range items {
		views[i] = newView(it, byItem[it.ID])
		views[i].annotate(neighbours[it.ID])
	}
	return views, nil
}

// GetItem returns one item with its comments. Booking annotations are added only
// when the user owns the item.
func (s *service) GetItem(ctx context.Context, userID, itemID int64) (*ItemView, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", userID).Int64("item_id", itemID).Msg("get item")

	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	view := newView(it, comments)
	if it.OwnerID == userID {
		neighbours, err := s.bookings.Neighbours(ctx, userID)
		if err != nil {
			return nil, err
		}
		view.annotate(neighbours[it.ID])
	}
	return view, nil
}

func newView(it *item.Item, comments []*comment.Comment) *ItemView {
	if comments == nil {
		comments = []*comment.Comment{}
	}
	return &ItemView{Item: it, Comments: comments}
}

func (v *ItemView) annotate(n booking.Neighbours) {
	v.LastBooking = refOf(n.Last)
	v.NextBooking = refOf(n.Next)
}

func refOf(b *booking.Booking) *BookingRef {
	if b == nil {
		return nil
	}
	return &BookingRef{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}
