package genre

import (
	"database/sql"
	"errors"

	"reviewhub/pkg/models"
)

var ErrNotFound = errors.New("genre not found")

func Create(db *sql.DB, g *models.Genre) error {
	res, err := db.Exec(`INSERT INTO genres(name, slug) VALUES(?,?)`, g.Name, g.Slug)
	if err != nil {
		return err
	}
	g.ID, err = res.LastInsertId()
	return err
}

func GetBySlug(db *sql.DB, slug string) (models.Genre, error) {
	var g models.Genre
	err := db.QueryRow(`SELECT id, name, slug FROM genres WHERE slug = ?`, slug).
		Scan(&g.ID, &g.Name, &g.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Genre{}, ErrNotFound
	}
	return g, err
}

// GetBySlugs resolves a set of slugs in one pass, preserving the
// request order. Any missing slug fails the whole lookup.
func GetBySlugs(db *sql.DB, slugs []string) ([]models.Genre, error) {
	res := make([]models.Genre, 0, len(slugs))
	for _, s := range slugs {
		g, err := GetBySlug(db, s)
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, nil
}

func List(db *sql.DB, search string, limit, offset int) ([]models.Genre, int, error) {
	where, args := "", []any{}
	if search != "" {
		where = ` WHERE name LIKE ? COLLATE NOCASE`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM genres`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`SELECT id, name, slug FROM genres`+where+
		` ORDER BY id DESC LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []models.Genre
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, 0, err
		}
		res = append(res, g)
	}
	return res, total, rows.Err()
}

// DeleteBySlug removes the genre; join rows to titles cascade away
// while the titles themselves stay.
func DeleteBySlug(db *sql.DB, slug string) error {
	res, err := db.Exec(`DELETE FROM genres WHERE slug = ?`, slug)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
