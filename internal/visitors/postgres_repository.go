package visitors

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// visitorsDB is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type visitorsDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository backed by PostgreSQL.
type PostgresRepository struct {
	db visitorsDB
}

// NewPostgresRepository creates a repository backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("visitors: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db visitorsDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CheckIn(ctx context.Context, visit *Visit) (int64, error) {
	if visit.CheckedIn.IsZero() {
		visit.CheckedIn = time.Now().UTC()
	}
	query := `
		INSERT INTO visitors (name, purpose, company, photo_path, checked_in)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, visit.Name, visit.Purpose, visit.Company, visit.PhotoPath, visit.CheckedIn).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("visitors: insert visit: %w", err)
	}
	visit.ID = id
	return id, nil
}

func (r *PostgresRepository) ListRange(ctx context.Context, from, to time.Time) ([]Visit, error) {
	query := `
		SELECT id, name, purpose, COALESCE(company, ''), COALESCE(photo_path, ''), checked_in
		FROM visitors
		WHERE checked_in >= $1 AND checked_in < $2
		ORDER BY checked_in ASC
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("visitors: list visits: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.Name, &v.Purpose, &v.Company, &v.PhotoPath, &v.CheckedIn); err != nil {
			return nil, fmt.Errorf("visitors: scan visit: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
