package item

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	OwnerID     int64
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// UpdateRequest uses pointers to distinguish between "field not sent" and "field sent".
type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

// UserChecker reports whether a user exists.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// RequestChecker reports whether an item request exists.
type RequestChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	Update(ctx context.Context, userID, itemID int64, req UpdateRequest) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*Item, error)
	ListByRequests(ctx context.Context, requestIDs []int64) ([]*Item, error)
	Search(ctx context.Context, text string, from, size int) ([]*Item, error)
}

type service struct {
	repo     Repository
	users    UserChecker
	requests RequestChecker
}

func NewService(repo Repository, users UserChecker, requests RequestChecker) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
	}
}

func (s *service) requireUser(ctx context.Context, id int64) error {
	exists, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return user.ErrNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", req.OwnerID).Msg("create item")

	if err := s.requireUser(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	if req.RequestID != nil {
		exists, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrRequestNotFound
		}
	}

	it := &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		OwnerID:     req.OwnerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, userID, itemID int64, req UpdateRequest) (*Item, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", userID).Int64("item_id", itemID).Msg("edit item")

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != userID {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		it.Name = *req.Name
	}
	if req.Description != nil {
		it.Description = *req.Description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*Item, error) {
	return s.repo.ListByOwner(ctx, ownerID, page)
}

func (s *service) ListByRequests(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	return s.repo.ListByRequests(ctx, requestIDs)
}

// Search returns available items whose name or description contains text, ignoring case.
// Pagination is validated before the text, and blank text matches nothing.
func (s *service) Search(ctx context.Context, text string, from, size int) ([]*Item, error) {
	zerolog.Ctx(ctx).Debug().Str("text", text).Msg("find item by text")

	page, err := pagination.New(from, size)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text, page)
}
