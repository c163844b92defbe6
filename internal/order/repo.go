package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/pg"
)

var (
	ErrNotFound        = apperr.NotFound("order not found")
	ErrPaymentNotFound = apperr.NotFound("payment not found")
)

// BuildFunc turns the user's locked cart into the aggregate to persist.
// Returning an error aborts the checkout without writing anything.
type BuildFunc func(lines []cart.Item) (*Placement, error)

type Repository interface {
	// Checkout loads the user's cart under a lock, calls build and persists
	// the order, its items and its payment and clears the cart in one atomic
	// step. When idempotencyKey matches an order of the user, that order is
	// returned with replayed=true and nothing is written.
	Checkout(ctx context.Context, userID, idempotencyKey string, build BuildFunc) (o *Order, replayed bool, err error)
	GetByID(ctx context.Context, id string) (*Order, error)
	GetItems(ctx context.Context, orderID string) ([]Item, error)
	GetPayment(ctx context.Context, orderID string) (*Payment, error)
	List(ctx context.Context, f Filter) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
	// Revenue sums the totals of every order that is not cancelled.
	Revenue(ctx context.Context) (decimal.Decimal, error)
	StatsByUser(ctx context.Context, userID string) (UserStats, error)
	ListPayments(ctx context.Context, status string) ([]Payment, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderColumns = `id, user_id, total::text, status, shipping_address, COALESCE(idempotency_key, ''), created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o     Order
		total string
	)
	if err := row.Scan(&o.ID, &o.UserID, &total, &o.Status, &o.ShippingAddress, &o.IdempotencyKey, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := pg.Money(total)
	if err != nil {
		return nil, err
	}
	o.Total = d
	return &o, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *PGRepo) Checkout(ctx context.Context, userID, idempotencyKey string, build BuildFunc) (*Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("order: begin checkout: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if idempotencyKey != "" {
		prev, err := scanOrder(tx.QueryRow(ctx, `
			SELECT `+orderColumns+` FROM orders WHERE user_id=$1 AND idempotency_key=$2
		`, userID, idempotencyKey))
		switch {
		case err == nil:
			return prev, true, nil
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, false, fmt.Errorf("order: idempotency lookup: %w", err)
		}
	}

	rows, err := tx.Query(ctx, cart.SelectByUser+` FOR UPDATE`, userID)
	if err != nil {
		return nil, false, fmt.Errorf("order: lock cart: %w", err)
	}
	lines := []cart.Item{}
	for rows.Next() {
		it, err := cart.ScanItem(rows)
		if err != nil {
			rows.Close()
			return nil, false, err
		}
		lines = append(lines, *it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("order: read cart: %w", err)
	}

	p, err := build(lines)
	if err != nil {
		return nil, false, err
	}
	o := p.Order

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, total, status, shipping_address, idempotency_key, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
	`, o.ID, o.UserID, o.Total.String(), string(o.Status), o.ShippingAddress, nullable(o.IdempotencyKey), o.CreatedAt); err != nil {
		return nil, false, fmt.Errorf("order: insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for i, it := range p.Items {
		batch.Queue(`
			INSERT INTO order_items (id, order_id, product_id, quantity, price, position)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, it.ID, o.ID, it.ProductID, it.Quantity, it.Price.String(), i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, false, fmt.Errorf("order: insert items: %w", err)
	}

	pay := p.Payment
	if _, err := tx.Exec(ctx, `
		INSERT INTO payments (id, order_id, amount, method, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, pay.ID, o.ID, pay.Amount.String(), pay.Method, pay.Status, pay.CreatedAt); err != nil {
		return nil, false, fmt.Errorf("order: insert payment: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID); err != nil {
		return nil, false, fmt.Errorf("order: clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("order: commit checkout: %w", err)
	}
	return &o, false, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order: get %s: %w", id, err)
	}
	return o, nil
}

func (r *PGRepo) GetItems(ctx context.Context, orderID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price::text
		FROM order_items
		WHERE order_id = $1
		ORDER BY position, id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order: items of %s: %w", orderID, err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var (
			it    Item
			price string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &price); err != nil {
			return nil, err
		}
		if it.Price, err = pg.Money(price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const paymentColumns = `id, order_id, amount::text, method, status, created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var (
		p      Payment
		amount string
	)
	if err := row.Scan(&p.ID, &p.OrderID, &amount, &p.Method, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	d, err := pg.Money(amount)
	if err != nil {
		return nil, err
	}
	p.Amount = d
	return &p, nil
}

func (r *PGRepo) GetPayment(ctx context.Context, orderID string) (*Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id=$1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order: payment of %s: %w", orderID, err)
	}
	return p, nil
}

func (r *PGRepo) List(ctx context.Context, f Filter) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	q := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, id, string(status))
	if err != nil {
		return fmt.Errorf("order: update status %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) CountByStatus(ctx context.Context) (map[Status]int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("order: count by status: %w", err)
	}
	defer rows.Close()

	out := map[Status]int{}
	for rows.Next() {
		var (
			s Status
			n int
		)
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}

func (r *PGRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var total string
	if err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)::text FROM orders WHERE status <> $1
	`, string(StatusCancelled)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("order: revenue: %w", err)
	}
	return pg.Money(total)
}

func (r *PGRepo) StatsByUser(ctx context.Context, userID string) (UserStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		st    UserStats
		total string
	)
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0)::text, MAX(created_at)
		FROM orders WHERE user_id = $1
	`, userID).Scan(&st.OrderCount, &total, &st.LastOrderDate); err != nil {
		return UserStats{}, fmt.Errorf("order: stats of %s: %w", userID, err)
	}
	d, err := pg.Money(total)
	if err != nil {
		return UserStats{}, err
	}
	st.TotalSpent = d
	return st, nil
}

func (r *PGRepo) ListPayments(ctx context.Context, status string) ([]Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("order: list payments: %w", err)
	}
	defer rows.Close()

	out := []Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
