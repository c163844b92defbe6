// Package cart holds the per-user shopping cart: its rows, the repository that
// stores them and the service applying the cart rules.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/pg"
)

var (
	ErrNotFound      = apperr.NotFound("cart item not found")
	ErrQuantityLimit = apperr.InvalidArgument(fmt.Sprintf("quantity must not exceed %d", MaxQuantity))
)

type Repository interface {
	// AddOrIncrement inserts it, or adds it.Quantity to the existing row of the
	// same (user, product) keeping that row's price snapshot. A sum above
	// MaxQuantity fails with ErrQuantityLimit and leaves the row unchanged.
	AddOrIncrement(ctx context.Context, it *Item) (*Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	ListByUser(ctx context.Context, userID string) ([]Item, error)
	SetQuantity(ctx context.Context, userID, id string, quantity int) (bool, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const itemColumns = `id, user_id, product_id, quantity, price::text, created_at`

// ScanItem reads a row selected with the cart item column list.
func ScanItem(row pgx.Row) (*Item, error) {
	var (
		it    Item
		price string
	)
	if err := row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &price, &it.CreatedAt); err != nil {
		return nil, err
	}
	d, err := pg.Money(price)
	if err != nil {
		return nil, err
	}
	it.Price = d
	return &it, nil
}

// SelectByUser is shared with the checkout transaction, which appends FOR UPDATE.
const SelectByUser = `SELECT ` + itemColumns + ` FROM cart_items WHERE user_id=$1 ORDER BY created_at ASC, id ASC`

func (r *PGRepo) AddOrIncrement(ctx context.Context, it *Item) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := ScanItem(r.db.QueryRow(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity, price, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		WHERE cart_items.quantity + EXCLUDED.quantity <= $6
		RETURNING `+itemColumns,
		it.ID, it.UserID, it.ProductID, it.Quantity, it.Price.String(), MaxQuantity))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuantityLimit
	}
	if err != nil {
		return nil, fmt.Errorf("cart: upsert %s/%s: %w", it.UserID, it.ProductID, err)
	}
	return out, nil
}

func (r *PGRepo) Get(ctx context.Context, id string) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	it, err := ScanItem(r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM cart_items WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cart: get %s: %w", id, err)
	}
	return it, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, SelectByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: list %s: %w", userID, err)
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		it, err := ScanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetQuantity(ctx context.Context, userID, id string, quantity int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE cart_items SET quantity=$3 WHERE id=$1 AND user_id=$2`, id, userID, quantity)
	if err != nil {
		return false, fmt.Errorf("cart: set quantity %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("cart: delete %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	if err != nil {
		return 0, fmt.Errorf("cart: clear %s: %w", userID, err)
	}
	return tag.RowsAffected(), nil
}
