package user

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

type CreateRequest struct {
	Name  string
	Email string
}

// UpdateRequest uses pointers to distinguish between "field not sent" and "field sent".
type UpdateRequest struct {
	Name  *string
	Email *string
}

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

// NewService creates a new user Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	zerolog.Ctx(ctx).Debug().Msg("create user")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	u := &User{Name: name, Email: email}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	zerolog.Ctx(ctx).Debug().Msg("get all users")
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	zerolog.Ctx(ctx).Debug().Int64("user_id", id).Msg("update user")

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		u.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		u.Email = email
	}

	// Uniqueness is enforced by the store; a collision surfaces as ErrEmailAlreadyUsed.
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	zerolog.Ctx(ctx).Debug().Int64("user_id", id).Msg("delete user")
	return s.repo.Delete(ctx, id)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
