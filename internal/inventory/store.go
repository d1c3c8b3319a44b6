package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Store persists sweets.
type Store interface {
	Create(ctx context.Context, s *Sweet) error
	Get(ctx context.Context, id int64) (*Sweet, error)
	List(ctx context.Context, f Filter) ([]Sweet, error)
	Update(ctx context.Context, s *Sweet) error
	Delete(ctx context.Context, id int64) error
	// AdjustQuantity adds delta to the stock of id atomically. A change that
	// would take the stock below zero fails with ErrInsufficientStock and
	// leaves it unchanged.
	AdjustQuantity(ctx context.Context, id int64, delta int) (*Sweet, error)
}

const sweetColumns = "id, name, category, price, quantity, created_at, updated_at"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSweet(row rowScanner) (*Sweet, error) {
	var s Sweet
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *PostgresStore) Create(ctx context.Context, s *Sweet) error {
	const q = `
		INSERT INTO sweets (name, category, price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	now := time.Now().UTC()
	row := p.db.QueryRowContext(ctx, q, s.Name, s.Category, s.Price, s.Quantity, now, now)
	if err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("create sweet: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id int64) (*Sweet, error) {
	q := "SELECT " + sweetColumns + " FROM sweets WHERE id = $1"
	s, err := scanSweet(p.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get sweet: %w", err)
	}
	return s, nil
}

func (p *PostgresStore) List(ctx context.Context, f Filter) ([]Sweet, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	idx := 1
	if f.Name != "" {
		clauses = append(clauses, "name ILIKE $"+itoa(idx))
		args = append(args, likePattern(f.Name))
		idx++
	}
	if f.Category != "" {
		clauses = append(clauses, "category ILIKE $"+itoa(idx))
		args = append(args, likePattern(f.Category))
		idx++
	}
	if f.MinPrice != nil {
		clauses = append(clauses, "price >= $"+itoa(idx))
		args = append(args, *f.MinPrice)
		idx++
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, "price <= $"+itoa(idx))
		args = append(args, *f.MaxPrice)
		idx++
	}
	query := "SELECT " + sweetColumns + " FROM sweets WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY id"
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	defer rows.Close()

	res := []Sweet{}
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}
		res = append(res, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *PostgresStore) Update(ctx context.Context, s *Sweet) error {
	const q = `
		UPDATE sweets SET name = $1, category = $2, price = $3, quantity = $4, updated_at = $5
		WHERE id = $6
		RETURNING created_at, updated_at
	`
	row := p.db.QueryRowContext(ctx, q, s.Name, s.Category, s.Price, s.Quantity, time.Now().UTC(), s.ID)
	if err := row.Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update sweet: %w", err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) AdjustQuantity(ctx context.Context, id int64, delta int) (*Sweet, error) {
	q := `
		UPDATE sweets SET quantity = quantity + $1, updated_at = $2
		WHERE id = $3 AND quantity + $1 >= 0
		RETURNING ` + sweetColumns
	s, err := scanSweet(p.db.QueryRowContext(ctx, q, delta, time.Now().UTC(), id))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}
	// No row updated: either the sweet is gone or the stock is too low.
	if _, err := p.Get(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrInsufficientStock
}

// likePattern escapes LIKE metacharacters and wraps s for a substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
