package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)

	// UpdateStatus moves the booking from one status to another.
	// It returns ErrAlreadyDecided if the booking is no longer in status from.
	UpdateStatus(ctx context.Context, id int64, from, to Status) error

	Neighbours(ctx context.Context, ownerID int64, now time.Time) (map[int64]Neighbours, error)
	LastFinished(ctx context.Context, itemID, bookerID int64, now time.Time) (*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
	"b.start_time", "b.end_time", "b.status", "b.created_at", "b.updated_at",
}

func selectBookings(options ...string) squirrel.SelectBuilder {
	return psql.Select(bookingColumns...).
		Options(options...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectBookings().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	return r.list(ctx, listQuery(filter))
}

// listQuery composes one query per state. Bounds are strict, so a booking starting
// or ending exactly at now is neither CURRENT nor PAST nor FUTURE.
func listQuery(filter Filter) squirrel.SelectBuilder {
	query := selectBookings()

	switch filter.Scope {
	case ScopeOwner:
		query = query.Where(squirrel.Eq{"i.owner_id": filter.UserID})
	default:
		query = query.Where(squirrel.Eq{"b.booker_id": filter.UserID})
	}

	switch filter.State {
	case StateCurrent:
		query = query.
			Where(squirrel.Lt{"b.start_time": filter.Now}).
			Where(squirrel.Gt{"b.end_time": filter.Now})
	case StatePast:
		query = query.Where(squirrel.Lt{"b.end_time": filter.Now})
	case StateFuture:
		query = query.Where(squirrel.Gt{"b.start_time": filter.Now})
	case StateWaiting:
		query = query.Where(squirrel.Eq{"b.status": StatusWaiting})
	case StateRejected:
		query = query.Where(squirrel.Eq{"b.status": StatusRejected})
	}

	return query.
		OrderBy("b.start_time DESC", "b.id DESC").
		Limit(filter.Page.Limit()).
		Offset(filter.Page.Offset())
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	query, args, err := psql.Update("public.bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

func lastApprovedQuery(ownerID int64, now time.Time) squirrel.SelectBuilder {
	return selectBookings("DISTINCT ON (b.item_id)").
		Where(squirrel.Eq{"i.owner_id": ownerID, "b.status": StatusApproved}).
		Where(squirrel.Lt{"b.start_time": now}).
		OrderBy("b.item_id", "b.start_time DESC")
}

func nextApprovedQuery(ownerID int64, now time.Time) squirrel.SelectBuilder {
	return selectBookings("DISTINCT ON (b.item_id)").
		Where(squirrel.Eq{"i.owner_id": ownerID, "b.status": StatusApproved}).
		Where(squirrel.Gt{"b.start_time": now}).
		OrderBy("b.item_id", "b.start_time ASC")
}

func (r *pgxRepository) Neighbours(ctx context.Context, ownerID int64, now time.Time) (map[int64]Neighbours, error) {
	last, err := r.list(ctx, lastApprovedQuery(ownerID, now))
	if err != nil {
		return nil, err
	}
	next, err := r.list(ctx, nextApprovedQuery(ownerID, now))
	if err != nil {
		return nil, err
	}

	out := make(map[int64]Neighbours, len(last)+len(next))
	for _, b := range last {
		n := out[b.ItemID]
		n.Last = b
		out[b.ItemID] = n
	}
	for _, b := range next {
		n := out[b.ItemID]
		n.Next = b
		out[b.ItemID] = n
	}
	return out, nil
}

func lastFinishedQuery(itemID, bookerID int64, now time.Time) squirrel.SelectBuilder {
	return selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID, "b.booker_id": bookerID, "b.status": StatusApproved}).
		Where(squirrel.Lt{"b.end_time": now}).
		OrderBy("b.end_time DESC").
		Limit(1)
}

func (r *pgxRepository) LastFinished(ctx context.Context, itemID, bookerID int64, now time.Time) (*Booking, error) {
	query, args, err := lastFinishedQuery(itemID, bookerID, now).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build last finished booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get last finished booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*Booking, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	return bookings, nil
}
