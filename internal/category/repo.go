package category

import (
	"database/sql"
	"errors"

	"reviewhub/pkg/models"
)

var ErrNotFound = errors.New("category not found")

func Create(db *sql.DB, c *models.Category) error {
	res, err := db.Exec(`INSERT INTO categories(name, slug) VALUES(?,?)`, c.Name, c.Slug)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

func GetBySlug(db *sql.DB, slug string) (models.Category, error) {
	var c models.Category
	err := db.QueryRow(`SELECT id, name, slug FROM categories WHERE slug = ?`, slug).
		Scan(&c.ID, &c.Name, &c.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, ErrNotFound
	}
	return c, err
}

// List filters by a case-insensitive substring of name when search is
// non-empty.
func List(db *sql.DB, search string, limit, offset int) ([]models.Category, int, error) {
	where, args := "", []any{}
	if search != "" {
		where = ` WHERE name LIKE ? COLLATE NOCASE`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM categories`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`SELECT id, name, slug FROM categories`+where+
		` ORDER BY id DESC LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, 0, err
		}
		res = append(res, c)
	}
	return res, total, rows.Err()
}

// DeleteBySlug fails with a foreign key violation while any title
// still references the category.
func DeleteBySlug(db *sql.DB, slug string) error {
	res, err := db.Exec(`DELETE FROM categories WHERE slug = ?`, slug)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
