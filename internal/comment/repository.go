package comment

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	ListByItem(ctx context.Context, itemID int64) ([]*Comment, error)
	// ListByOwner returns the comments on every item of the owner.
	ListByOwner(ctx context.Context, ownerID int64) ([]*Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectComments() squirrel.SelectBuilder {
	return psql.Select("c.id", "c.text", "c.item_id", "c.author_id", "u.name", "c.created_at").
		From("public.comments c").
		Join("public.users u ON c.author_id = u.id")
}

func (r *pgxRepository) Create(ctx context.Context, c *Comment) error {
	query, args, err := psql.Insert("public.comments").
		Columns("text", "item_id", "author_id", "created_at").
		Values(c.Text, c.ItemID, c.AuthorID, c.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListByItem(ctx context.Context, itemID int64) ([]*Comment, error) {
	return r.list(ctx, byItemQuery(itemID))
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*Comment, error) {
	return r.list(ctx, byOwnerQuery(ownerID))
}

func byItemQuery(itemID int64) squirrel.SelectBuilder {
	return selectComments().
		Where(squirrel.Eq{"c.item_id": itemID}).
		OrderBy("c.created_at", "c.id")
}

func byOwnerQuery(ownerID int64) squirrel.SelectBuilder {
	return selectComments().
		Join("public.items i ON c.item_id = i.id").
		Where(squirrel.Eq{"i.owner_id": ownerID}).
		OrderBy("c.created_at", "c.id")
}

func (r *pgxRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*Comment, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	return comments, nil
}
