package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// csvFiles lists the fixture files in dependency order: referenced
// tables load before the tables referencing them.
var csvFiles = []string{
	"users.csv",
	"category.csv",
	"genre.csv",
	"titles.csv",
	"genre_title.csv",
	"review.csv",
	"comments.csv",
}

// ImportCSVDir bulk-loads fixture data from a directory of fixed
// format per-table CSV files. Missing files are skipped; each file
// loads inside one transaction.
func ImportCSVDir(db *sql.DB, dir string) (int, error) {
	total := 0
	for _, name := range csvFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		n, err := importCSVFile(db, name, path)
		if err != nil {
			return total, fmt.Errorf("import %s: %w", name, err)
		}
		total += n
	}
	return total, nil
}

// readRows returns the records keyed by the header row, the way the
// files are shipped.
func readRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := map[string]string{}
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func importCSVFile(db *sql.DB, name, path string) (int, error) {
	rows, err := readRows(path)
	if err != nil {
		return 0, err
	}

	var stmt string
	var bind func(row map[string]string) ([]any, error)

	switch name {
	case "users.csv":
		stmt = `INSERT OR IGNORE INTO users(id, username, email, first_name, last_name, bio, role, confirmation_code)
			VALUES(?,?,?,?,?,?,?,?)`
		bind = func(row map[string]string) ([]any, error) {
			role := row["role"]
			if role == "" {
				role = "user"
			}
			code, err := freshCode()
			if err != nil {
				return nil, err
			}
			return []any{row["id"], row["username"], row["email"], row["first_name"],
				row["last_name"], row["bio"], role, code}, nil
		}
	case "category.csv":
		stmt = `INSERT OR IGNORE INTO categories(id, name, slug) VALUES(?,?,?)`
		bind = func(row map[string]string) ([]any, error) {
			return []any{row["id"], row["name"], row["slug"]}, nil
		}
	case "genre.csv":
		stmt = `INSERT OR IGNORE INTO genres(id, name, slug) VALUES(?,?,?)`
		bind = func(row map[string]string) ([]any, error) {
			return []any{row["id"], row["name"], row["slug"]}, nil
		}
	case "titles.csv":
		stmt = `INSERT OR IGNORE INTO titles(id, name, year, category_id) VALUES(?,?,?,?)`
		bind = func(row map[string]string) ([]any, error) {
			return []any{row["id"], row["name"], row["year"], row["category"]}, nil
		}
	case "genre_title.csv":
		stmt = `INSERT OR IGNORE INTO title_genres(title_id, genre_id) VALUES(?,?)`
		bind = func(row map[string]string) ([]any, error) {
			return []any{row["title_id"], row["genre_id"]}, nil
		}
	case "review.csv":
		stmt = `INSERT OR IGNORE INTO reviews(id, title_id, author_id, text, score, pub_date)
			VALUES(?,?,?,?,?,?)`
		bind = func(row map[string]string) ([]any, error) {
			return []any{row["id"], row["title_id"], row["author"], row["text"],
				row["score"], row["pub_date"]}, nil
		}
	case "comments.csv":
		stmt = `INSERT OR IGNORE INTO comments(id, review_id, author_id, text, pub_date)
			VALUES(?,?,?,?,?)`
		bind = func(row map[string]string) ([]any, error) {
			return []any{row["id"], row["review_id"], row["author"], row["text"],
				row["pub_date"]}, nil
		}
	default:
		return 0, fmt.Errorf("unknown fixture file %s", name)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prepared, err := tx.Prepare(stmt)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer prepared.Close()

	inserted := 0
	for _, row := range rows {
		args, err := bind(row)
		if err != nil {
			return 0, err
		}
		res, err := prepared.Exec(args...)
		if err != nil {
			return 0, fmt.Errorf("insert row %v: %w", row, err)
		}
		aff, _ := res.RowsAffected()
		if aff > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}

func freshCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
