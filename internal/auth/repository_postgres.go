package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUserNotFound is returned when no account matches the given login.
var ErrUserNotFound = errors.New("user not found")

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Save(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, email, first_name, last_name, password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query,
		user.Username, user.Email, user.FirstName, user.LastName, user.Password,
	).Scan(&user.ID)
}

// FindByLogin matches the login against email or username, both
// case-insensitively, mirroring the token endpoint behavior.
func (r *PostgresUserRepository) FindByLogin(ctx context.Context, login string) (*User, error) {
	query := `
		SELECT id, username, email, first_name, last_name, password, avatar_url
		FROM users
		WHERE LOWER(email) = LOWER($1) OR LOWER(username) = LOWER($1)
		ORDER BY id
		LIMIT 1
	`
	user := &User{}
	err := r.db.QueryRow(ctx, query, login).Scan(
		&user.ID, &user.Username, &user.Email,
		&user.FirstName, &user.LastName, &user.Password, &user.AvatarURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`, email)
}

func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE LOWER(username) = LOWER($1) LIMIT 1`, username)
}

func (r *PostgresUserRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx, query, arg).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
