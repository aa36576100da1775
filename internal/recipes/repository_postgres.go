package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opyryanova/foodgram/internal/tags"
	"github.com/opyryanova/foodgram/internal/users"
)

var (
	ErrNotFound      = errors.New("recipe not found")
	ErrDuplicateName = errors.New("you already have a recipe with this name")
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// recipeColumns selects a recipe row joined with its author; $1 is the
// viewer id for the per-user flags.
const recipeColumns = `
	r.id, r.name, r.image_url, r.text, r.cooking_time, r.servings, r.pub_date,
	u.id, u.username, u.first_name, u.last_name, u.email, u.avatar_url,
	EXISTS (SELECT 1 FROM subscriptions s WHERE s.user_id = $1 AND s.author_id = u.id),
	EXISTS (SELECT 1 FROM favorites f WHERE f.user_id = $1 AND f.recipe_id = r.id),
	EXISTS (SELECT 1 FROM shopping_carts c WHERE c.user_id = $1 AND c.recipe_id = r.id)
`

func scanRecipe(row pgx.Row) (*Recipe, error) {
	var rec Recipe
	var image, avatar string
	err := row.Scan(
		&rec.ID, &rec.Name, &image, &rec.Text, &rec.CookingTime, &rec.Servings, &rec.PubDate,
		&rec.Author.ID, &rec.Author.Username, &rec.Author.FirstName,
		&rec.Author.LastName, &rec.Author.Email, &avatar,
		&rec.Author.IsSubscribed, &rec.IsFavorited, &rec.IsInShoppingCart,
	)
	if err != nil {
		return nil, err
	}
	rec.Image = nullableURL(image)
	rec.Author.Avatar = users.NullableURL(avatar)
	return &rec, nil
}

func nullableURL(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *PostgresRepository) List(ctx context.Context, viewerID int64, f Filter) ([]Recipe, int, error) {
	args := []interface{}{viewerID}
	where := []string{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.AuthorID > 0 {
		where = append(where, "r.author_id = "+arg(f.AuthorID))
	}
	if f.Name != "" {
		where = append(where, "r.name ILIKE '%' || "+arg(f.Name)+" || '%'")
	}
	if len(f.TagSlugs) > 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM recipe_tags rt
			JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.slug = ANY(`+arg(f.TagSlugs)+`)
		)`)
	}
	if f.FavoritedBy > 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM favorites ff
			WHERE ff.recipe_id = r.id AND ff.user_id = `+arg(f.FavoritedBy)+`
		)`)
	}
	if f.InCartOf > 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM shopping_carts cc
			WHERE cc.recipe_id = r.id AND cc.user_id = `+arg(f.InCartOf)+`
		)`)
	}

	cond := ""
	if len(where) > 0 {
		cond = "WHERE " + strings.Join(where, " AND ")
	}

	var count int
	countQuery := `SELECT COUNT(*) FROM recipes r ` + cond
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		` + cond + `
		ORDER BY r.pub_date DESC, r.id DESC
		LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	recipes := []Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, err
		}
		recipes = append(recipes, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachRelations(ctx, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

func (r *PostgresRepository) Get(ctx context.Context, viewerID, recipeID int64) (*Recipe, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+recipeColumns+`
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $2
	`, viewerID, recipeID)

	rec, err := scanRecipe(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	page := []Recipe{*rec}
	if err := r.attachRelations(ctx, page); err != nil {
		return nil, err
	}
	return &page[0], nil
}

// attachRelations loads tags and ingredient lines for a page of recipes.
func (r *PostgresRepository) attachRelations(ctx context.Context, recipes []Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(recipes))
	index := make(map[int64]*Recipe, len(recipes))
	for i := range recipes {
		recipes[i].Tags = []tags.Tag{}
		recipes[i].Ingredients = []IngredientLine{}
		ids = append(ids, recipes[i].ID)
		index[recipes[i].ID] = &recipes[i]
	}

	tagRows, err := r.db.Query(ctx, `
		SELECT rt.recipe_id, t.id, t.name, t.slug
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1)
		ORDER BY t.name
	`, ids)
	if err != nil {
		return err
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var recipeID int64
		var t tags.Tag
		if err := tagRows.Scan(&recipeID, &t.ID, &t.Name, &t.Slug); err != nil {
			return err
		}
		rec := index[recipeID]
		rec.Tags = append(rec.Tags, t)
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	lineRows, err := r.db.Query(ctx, `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY i.name, i.measurement_unit
	`, ids)
	if err != nil {
		return err
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var recipeID int64
		var line IngredientLine
		if err := lineRows.Scan(&recipeID, &line.ID, &line.Name, &line.MeasurementUnit, &line.Amount); err != nil {
			return err
		}
		rec := index[recipeID]
		rec.Ingredients = append(rec.Ingredients, line)
	}
	return lineRows.Err()
}

func (r *PostgresRepository) Short(ctx context.Context, recipeID int64) (*ShortRecipe, error) {
	var short ShortRecipe
	var image string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, image_url, cooking_time FROM recipes WHERE id = $1
	`, recipeID).Scan(&short.ID, &short.Name, &image, &short.CookingTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	short.Image = nullableURL(image)
	return &short, nil
}

func (r *PostgresRepository) Create(ctx context.Context, in *RecipeInput) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var recipeID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO recipes (author_id, name, image_url, text, cooking_time, servings)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, in.AuthorID, in.Name, in.ImageURL, in.Text, in.CookingTime, in.Servings).Scan(&recipeID)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}

	if err := insertRelations(ctx, tx, recipeID, in); err != nil {
		return 0, err
	}
	return recipeID, tx.Commit(ctx)
}

func (r *PostgresRepository) Update(ctx context.Context, recipeID int64, in *RecipeInput) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE recipes
		SET name = $1, image_url = $2, text = $3, cooking_time = $4, servings = $5
		WHERE id = $6
	`, in.Name, in.ImageURL, in.Text, in.CookingTime, in.Servings, recipeID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipeID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
		return err
	}
	if err := insertRelations(ctx, tx, recipeID, in); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertRelations(ctx context.Context, tx pgx.Tx, recipeID int64, in *RecipeInput) error {
	for _, tagID := range in.TagIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)
		`, recipeID, tagID); err != nil {
			return err
		}
	}
	for _, ing := range in.Ingredients {
		if _, err := tx.Exec(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
			VALUES ($1, $2, $3)
		`, recipeID, ing.ID, ing.Amount); err != nil {
			return err
		}
	}
	return nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateName
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, recipeID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, recipeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) AuthorOf(ctx context.Context, recipeID int64) (int64, error) {
	var authorID int64
	err := r.db.QueryRow(ctx,
		`SELECT author_id FROM recipes WHERE id = $1`, recipeID,
	).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return authorID, err
}

func (r *PostgresRepository) CountTags(ctx context.Context, ids []int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tags WHERE id = ANY($1)`, ids,
	).Scan(&n)
	return n, err
}

func (r *PostgresRepository) CountIngredients(ctx context.Context, ids []int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM ingredients WHERE id = ANY($1)`, ids,
	).Scan(&n)
	return n, err
}

func (r *PostgresRepository) AddFavorite(ctx context.Context, userID, recipeID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO favorites (user_id, recipe_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, recipe_id) DO NOTHING
	`, userID, recipeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) RemoveFavorite(ctx context.Context, userID, recipeID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2
	`, userID, recipeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) AddCartEntry(ctx context.Context, userID, recipeID int64, servings int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO shopping_carts (user_id, recipe_id, servings)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, recipe_id) DO NOTHING
	`, userID, recipeID, servings)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) UpdateCartEntry(ctx context.Context, userID, recipeID int64, servings int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE shopping_carts SET servings = $3
		WHERE user_id = $1 AND recipe_id = $2
	`, userID, recipeID, servings)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) RemoveCartEntry(ctx context.Context, userID, recipeID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM shopping_carts WHERE user_id = $1 AND recipe_id = $2
	`, userID, recipeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) CartEntries(ctx context.Context, userID int64) ([]CartEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.recipe_id, r.servings, c.servings
		FROM shopping_carts c
		JOIN recipes r ON r.id = c.recipe_id
		WHERE c.user_id = $1
		ORDER BY c.recipe_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []CartEntry{}
	ids := []int64{}
	for rows.Next() {
		var e CartEntry
		if err := rows.Scan(&e.RecipeID, &e.BaseServings, &e.Servings); err != nil {
			return nil, err
		}
		entries = append(entries, e)
		ids = append(ids, e.RecipeID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	lineRows, err := r.db.Query(ctx, `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	lines := make(map[int64][]IngredientLine)
	for lineRows.Next() {
		var recipeID int64
		var line IngredientLine
		if err := lineRows.Scan(&recipeID, &line.ID, &line.Name, &line.MeasurementUnit, &line.Amount); err != nil {
			return nil, err
		}
		lines[recipeID] = append(lines[recipeID], line)
	}
	if err := lineRows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Lines = lines[entries[i].RecipeID]
	}
	return entries, nil
}

func (r *PostgresRepository) ShortLinkCode(ctx context.Context, recipeID int64) (string, error) {
	var code string
	err := r.db.QueryRow(ctx,
		`SELECT code FROM short_links WHERE recipe_id = $1`, recipeID,
	).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return code, err
}

func (r *PostgresRepository) SaveShortLink(ctx context.Context, recipeID int64, code string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO short_links (recipe_id, code)
		VALUES ($1, $2)
		ON CONFLICT (recipe_id) DO NOTHING
	`, recipeID, code)
	return err
}

func (r *PostgresRepository) ResolveShortLink(ctx context.Context, code string) (int64, error) {
	var recipeID int64
	err := r.db.QueryRow(ctx,
		`SELECT recipe_id FROM short_links WHERE code = $1`, code,
	).Scan(&recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return recipeID, err
}
