package enquiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/storefront/internal/apperr"
)

var ErrNotFound = apperr.NotFound("enquiry not found")

type Repository interface {
	Create(ctx context.Context, e *Enquiry) error
	GetByID(ctx context.Context, id string) (*Enquiry, error)
	// List returns enquiries newest first. An empty status matches all and a
	// non-positive limit means no limit.
	List(ctx context.Context, status Status, limit int) ([]Enquiry, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const columns = `id, name, email, message, status, created_at`

func scan(row pgx.Row) (*Enquiry, error) {
	var e Enquiry
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Message, &e.Status, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PGRepo) Create(ctx context.Context, e *Enquiry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO enquiries (id, name, email, message, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, e.ID, e.Name, e.Email, e.Message, string(e.Status)).Scan(&e.CreatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Enquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	e, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM enquiries WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("enquiry: get %s: %w", id, err)
	}
	return e, nil
}

func (r *PGRepo) List(ctx context.Context, status Status, limit int) ([]Enquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+columns+` FROM enquiries
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($2, 0)
	`, string(status), max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("enquiry: list: %w", err)
	}
	defer rows.Close()

	out := []Enquiry{}
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE enquiries SET status=$2 WHERE id=$1`, id, string(status))
	if err != nil {
		return fmt.Errorf("enquiry: update status %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) CountByStatus(ctx context.Context) (map[Status]int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM enquiries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("enquiry: count by status: %w", err)
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
