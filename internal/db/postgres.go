package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool against the given DSN and bootstraps the schema.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return pool, nil
}

// initSchema creates the tables if they do not exist yet.
func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(150) UNIQUE NOT NULL,
			email VARCHAR(254) UNIQUE NOT NULL,
			first_name VARCHAR(150) NOT NULL DEFAULT '',
			last_name VARCHAR(150) NOT NULL DEFAULT '',
			password VARCHAR(255) NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS tags (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(64) UNIQUE NOT NULL,
			slug VARCHAR(32) UNIQUE NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS ingredients (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(128) NOT NULL,
			measurement_unit VARCHAR(64) NOT NULL,
			UNIQUE (name, measurement_unit)
		)`,
		`CREATE INDEX IF NOT EXISTS ingredients_name_lower_idx
			ON ingredients (LOWER(name))`,

		`CREATE TABLE IF NOT EXISTS recipes (
			id BIGSERIAL PRIMARY KEY,
			author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(256) NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			cooking_time INT NOT NULL CHECK (cooking_time >= 1),
			servings INT NOT NULL DEFAULT 1 CHECK (servings BETWEEN 1 AND 50),
			pub_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (author_id, name)
		)`,
		`CREATE INDEX IF NOT EXISTS recipes_name_idx ON recipes (name)`,

		`CREATE TABLE IF NOT EXISTS recipe_tags (
			recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			UNIQUE (recipe_id, tag_id)
		)`,

		`CREATE TABLE IF NOT EXISTS recipe_ingredients (
			recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			ingredient_id BIGINT NOT NULL REFERENCES ingredients(id) ON DELETE CASCADE,
			amount INT NOT NULL CHECK (amount >= 1),
			UNIQUE (recipe_id, ingredient_id)
		)`,

		`CREATE TABLE IF NOT EXISTS favorites (
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			UNIQUE (user_id, recipe_id)
		)`,

		`CREATE TABLE IF NOT EXISTS shopping_carts (
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			servings INT NOT NULL DEFAULT 1 CHECK (servings BETWEEN 1 AND 50),
			UNIQUE (user_id, recipe_id)
		)`,

		`CREATE TABLE IF NOT EXISTS subscriptions (
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE (user_id, author_id),
			CHECK (user_id <> author_id)
		)`,

		`CREATE TABLE IF NOT EXISTS short_links (
			recipe_id BIGINT UNIQUE NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			code VARCHAR(16) UNIQUE NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
