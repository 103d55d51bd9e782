package doctors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// doctorsDB is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type doctorsDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores doctor reference data in the relational database.
type PostgresRepository struct {
	db doctorsDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("doctors: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db doctorsDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*Doctor, error) {
	query := `
		SELECT id, name, specialty
		FROM doctors
		WHERE lower(name) = lower($1)
	`
	var d Doctor
	if err := r.db.QueryRow(ctx, query, name).Scan(&d.ID, &d.Name, &d.Specialty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("doctors: select by name: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) ListBySpecialty(ctx context.Context, specialty string) ([]Doctor, error) {
	query := `
		SELECT id, name, specialty
		FROM doctors
		WHERE lower(specialty) = lower($1)
		ORDER BY id
	`
	return r.list(ctx, query, specialty)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Doctor, error) {
	query := `
		SELECT id, name, specialty
		FROM doctors
		ORDER BY id
	`
	return r.list(ctx, query)
}

func (r *PostgresRepository) ResolveSpecialty(ctx context.Context, disease string) (string, bool, error) {
	query := `
		SELECT specialty
		FROM disease_specialties
		WHERE lower(disease) = lower($1)
	`
	var specialty string
	if err := r.db.QueryRow(ctx, query, strings.TrimSpace(disease)).Scan(&specialty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("doctors: resolve specialty: %w", err)
	}
	return specialty, true, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Doctor, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("doctors: list: %w", err)
	}
	defer rows.Close()

	var out []Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty); err != nil {
			return nil, fmt.Errorf("doctors: scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
