package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]*Request, error)
	ListExcludingRequester(ctx context.Context, requesterID int64, page pagination.Page) ([]*Request, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectRequests() squirrel.SelectBuilder {
	return psql.Select("id", "description", "requester_id", "created_at").
		From("public.requests")
}

func (r *pgxRepository) Create(ctx context.Context, req *Request) error {
	query, args, err := psql.Insert("public.requests").
		Columns("description", "requester_id").
		Values(req.Description, req.RequesterID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create request query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.CreatedAt); err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Request, error) {
	query, args, err := selectRequests().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get request query failed: %w", err)
	}

	var req Request
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.Description, &req.RequesterID, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRepository) Exists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := psql.Select("1").From("public.requests").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build request exists query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check request exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*Request, error) {
	return r.list(ctx, ownQuery(requesterID))
}

func (r *pgxRepository) ListExcludingRequester(ctx context.Context, requesterID int64, page pagination.Page) ([]*Request, error) {
	return r.list(ctx, othersQuery(requesterID, page))
}

func ownQuery(requesterID int64) squirrel.SelectBuilder {
	return selectRequests().
		Where(squirrel.Eq{"requester_id": requesterID}).
		OrderBy("created_at DESC", "id DESC")
}

func othersQuery(requesterID int64, page pagination.Page) squirrel.SelectBuilder {
	return selectRequests().
		Where(squirrel.NotEq{"requester_id": requesterID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(page.Limit()).
		Offset(page.Offset())
}

func (r *pgxRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*Request, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests failed: %w", err)
	}
	defer rows.Close()

	var list []*Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.Description, &req.RequesterID, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request failed: %w", err)
		}
		list = append(list, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requests failed: %w", err)
	}
	return list, nil
}
