package ingredients

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("ingredient not found")

type Repository interface {
	Search(ctx context.Context, name string) ([]Ingredient, error)
	Get(ctx context.Context, id int64) (*Ingredient, error)
	Upsert(ctx context.Context, name, unit string) (created bool, err error)
	Count(ctx context.Context) (int, error)
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Search returns ingredients matching name case-insensitively, prefix
// matches first, then the remaining substring matches. An empty name
// returns the whole dictionary.
func (r *PostgresRepository) Search(ctx context.Context, name string) ([]Ingredient, error) {
	query := `
		SELECT id, name, measurement_unit
		FROM ingredients
		ORDER BY name, measurement_unit
	`
	args := []interface{}{}

	if name != "" {
		query = `
			SELECT id, name, measurement_unit
			FROM ingredients
			WHERE name ILIKE '%' || $1 || '%'
			ORDER BY (name ILIKE $1 || '%') DESC, name, measurement_unit
		`
		args = append(args, name)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Ingredient{}
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit); err != nil {
			return nil, err
		}
		items = append(items, ing)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Ingredient, error) {
	var ing Ingredient
	err := r.db.QueryRow(ctx,
		`SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`, id,
	).Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// Upsert inserts the pair unless it already exists. Used by the import CLI.
func (r *PostgresRepository) Upsert(ctx context.Context, name, unit string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO ingredients (name, measurement_unit)
		VALUES ($1, $2)
		ON CONFLICT (name, measurement_unit) DO NOTHING
	`, name, unit)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ingredients`).Scan(&n)
	return n, err
}
