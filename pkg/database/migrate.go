package database

import (
	"database/sql"
	"fmt"
)

func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'user',
			confirmation_code TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS genres (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE
		);`,
		// Category deletion is blocked while a title references it;
		// everything below a title cascades.
		`CREATE TABLE IF NOT EXISTS titles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			year INTEGER NOT NULL,
			description TEXT,
			category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			UNIQUE (name, category_id)
		);`,
		`CREATE TABLE IF NOT EXISTS title_genres (
			title_id INTEGER NOT NULL REFERENCES titles(id) ON DELETE CASCADE,
			genre_id INTEGER NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
			PRIMARY KEY (title_id, genre_id)
		);`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title_id INTEGER NOT NULL REFERENCES titles(id) ON DELETE CASCADE,
			author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			score INTEGER NOT NULL CHECK (score BETWEEN 1 AND 10),
			pub_date TIMESTAMP NOT NULL,
			UNIQUE (title_id, author_id)
		);`,
		`CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			review_id INTEGER NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
			author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			pub_date TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_pub_date ON reviews(pub_date);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_pub_date ON comments(pub_date);`,
	}

	for i, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate stmt %d: %w", i, err)
		}
	}
	return nil
}
