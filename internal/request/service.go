package request

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserChecker reports whether a user exists.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ItemLister loads the items that answer the given requests.
type ItemLister interface {
	ListByRequests(ctx context.Context, requestIDs []int64) ([]*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, userID int64, description string) (*Request, error)
	ListOwn(ctx context.Context, userID int64) ([]*Request, error)
	ListOthers(ctx context.Context, userID int64, from, size int) ([]*Request, error)
	GetByID(ctx context.Context, userID, requestID int64) (*Request, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo  Repository
	users UserChecker
	items ItemLister
}

func NewService(repo Repository, users UserChecker, items ItemLister) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
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

func (s *service) Create(ctx context.Context, userID int64, description string) (*Request, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", userID).Msg("create item request")

	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	r := &Request{
		Description: description,
		RequesterID: userID,
		Items:       []*item.Item{},
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) ListOwn(ctx context.Context, userID int64) ([]*Request, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", userID).Msg("get own item requests")

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return list, s.attachItems(ctx, list)
}

// ListOthers returns other users' requests, newest first.
// The user is checked before the pagination parameters.
func (s *service) ListOthers(ctx context.Context, userID int64, from, size int) ([]*Request, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", userID).Msg("get all item requests")

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	page, err := pagination.New(from, size)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.ListExcludingRequester(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return list, s.attachItems(ctx, list)
}

func (s *service) GetByID(ctx context.Context, userID, requestID int64) (*Request, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", userID).Int64("request_id", requestID).Msg("get item request by id")

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	r, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return r, s.attachItems(ctx, []*Request{r})
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// attachItems loads the answering items for all requests in one call and groups them by request id.
func (s *service) attachItems(ctx context.Context, list []*Request) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]int64, len(list))
	for i, r := range list {
		ids[i] = r.ID
	}

	items, err := s.items.ListByRequests(ctx, ids)
	if err != nil {
		return err
	}

	byRequest := make(map[int64][]*item.Item, len(list))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}
	for _, r := range list {
		r.Items = byRequest[r.ID]
		if r.Items == nil {
			r.Items = []*item.Item{}
		}
	}
	return nil
}
