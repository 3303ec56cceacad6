package item

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	Update(ctx context.Context, it *Item) error
	ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*Item, error)
	ListByRequests(ctx context.Context, requestIDs []int64) ([]*Item, error)
	Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectItems() squirrel.SelectBuilder {
	return psql.Select("id", "name", "description", "available", "owner_id", "request_id", "created_at").
		From("public.items")
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	query, args, err := psql.Insert("public.items").
		Columns("name", "description", "available", "owner_id", "request_id").
		Values(it.Name, it.Description, it.Available, it.OwnerID, it.RequestID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&it.ID, &it.CreatedAt); err != nil {
		// The request may be gone between the existence check and the insert.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation && pgErr.ConstraintName == "items_request_id_fkey" {
			return ErrRequestNotFound
		}
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query, args, err := selectItems().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	query, args, err := psql.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("available", it.Available).
		Where(squirrel.Eq{"id": it.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*Item, error) {
	return r.list(ctx, ownerQuery(ownerID, page))
}

func (r *pgxRepository) ListByRequests(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	return r.list(ctx, selectItems().Where(squirrel.Eq{"request_id": requestIDs}).OrderBy("id"))
}

func (r *pgxRepository) Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error) {
	return r.list(ctx, searchQuery(text, page))
}

func ownerQuery(ownerID int64, page pagination.Page) squirrel.SelectBuilder {
	return selectItems().
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("id").
		Limit(page.Limit()).
		Offset(page.Offset())
}

func searchQuery(text string, page pagination.Page) squirrel.SelectBuilder {
	pattern := "%" + escapeLike(text) + "%"
	return selectItems().
		Where(squirrel.Eq{"available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		}).
		OrderBy("id").
		Limit(page.Limit()).
		Offset(page.Offset())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *pgxRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*Item, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	return items, nil
}
