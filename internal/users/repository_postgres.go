package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const publicUserColumns = `
	u.id, u.username, u.first_name, u.last_name, u.email, u.avatar_url,
	EXISTS (
		SELECT 1 FROM subscriptions s
		WHERE s.user_id = $1 AND s.author_id = u.id
	)
`

func scanPublicUser(row pgx.Row) (*PublicUser, error) {
	var u PublicUser
	var avatar string
	if err := row.Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email,
		&avatar, &u.IsSubscribed,
	); err != nil {
		return nil, err
	}
	u.Avatar = NullableURL(avatar)
	return &u, nil
}

func (r *PostgresRepository) List(ctx context.Context, viewerID int64, limit, offset int) ([]PublicUser, int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+publicUserColumns+`
		FROM users u
		ORDER BY u.id
		LIMIT $2 OFFSET $3
	`, viewerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := []PublicUser{}
	for rows.Next() {
		u, err := scanPublicUser(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *u)
	}
	return result, count, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, viewerID, userID int64) (*PublicUser, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+publicUserColumns+`
		FROM users u
		WHERE u.id = $2
	`, viewerID, userID)

	u, err := scanPublicUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) SetAvatar(ctx context.Context, userID int64, url string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET avatar_url = $1 WHERE id = $2`, url, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Subscribe(ctx context.Context, userID, authorID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO subscriptions (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, author_id) DO NOTHING
	`, userID, authorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) Unsubscribe(ctx context.Context, userID, authorID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM subscriptions WHERE user_id = $1 AND author_id = $2
	`, userID, authorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) Subscriptions(ctx context.Context, userID int64, limit, offset int) ([]PublicUser, int, error) {
	var count int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = $1`, userID,
	).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+publicUserColumns+`
		FROM users u
		JOIN subscriptions s ON s.author_id = u.id
		WHERE s.user_id = $1
		ORDER BY u.id
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := []PublicUser{}
	for rows.Next() {
		u, err := scanPublicUser(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *u)
	}
	return result, count, rows.Err()
}

func (r *PostgresRepository) RecipeCards(ctx context.Context, authorIDs []int64) (map[int64][]RecipeCard, error) {
	cards := make(map[int64][]RecipeCard, len(authorIDs))
	if len(authorIDs) == 0 {
		return cards, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT author_id, id, name, image_url, cooking_time
		FROM recipes
		WHERE author_id = ANY($1)
		ORDER BY pub_date DESC, id DESC
	`, authorIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var authorID int64
		var card RecipeCard
		var image string
		if err := rows.Scan(&authorID, &card.ID, &card.Name, &image, &card.CookingTime); err != nil {
			return nil, err
		}
		card.Image = NullableURL(image)
		cards[authorID] = append(cards[authorID], card)
	}
	return cards, rows.Err()
}
