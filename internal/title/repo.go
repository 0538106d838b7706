package title

import (
	"database/sql"
	"errors"
	"fmt"

	"reviewhub/pkg/models"
)

var ErrNotFound = errors.New("title not found")

// Filter narrows the title listing. Zero values mean "no constraint".
type Filter struct {
	Name         string // case-insensitive substring
	CategorySlug string // exact
	GenreSlug    string // exact, via the join table
	Year         *int   // exact
}

// selectQuery joins the category and computes the rating as the mean
// of the linked review scores at query time.
const selectQuery = `
	SELECT t.id, t.name, t.year, t.description,
	       c.id, c.name, c.slug,
	       (SELECT AVG(r.score) FROM reviews r WHERE r.title_id = t.id)
	FROM titles t
	JOIN categories c ON c.id = t.category_id`

func scanTitle(s interface{ Scan(...any) error }) (models.Title, error) {
	var t models.Title
	var rating sql.NullFloat64
	err := s.Scan(&t.ID, &t.Name, &t.Year, &t.Description,
		&t.Category.ID, &t.Category.Name, &t.Category.Slug, &rating)
	if err != nil {
		return models.Title{}, err
	}
	if rating.Valid {
		t.Rating = &rating.Float64
	}
	return t, nil
}

func loadGenres(db *sql.DB, titleID int64) ([]models.Genre, error) {
	rows, err := db.Query(`
		SELECT g.id, g.name, g.slug
		FROM genres g
		JOIN title_genres tg ON tg.genre_id = g.id
		WHERE tg.title_id = ?
		ORDER BY g.id`, titleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func GetByID(db *sql.DB, id int64) (models.Title, error) {
	t, err := scanTitle(db.QueryRow(selectQuery+` WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Title{}, ErrNotFound
	}
	if err != nil {
		return models.Title{}, err
	}
	t.Genres, err = loadGenres(db, t.ID)
	return t, err
}

func List(db *sql.DB, f Filter, limit, offset int) ([]models.Title, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.Name != "" {
		where += ` AND t.name LIKE ? COLLATE NOCASE`
		args = append(args, "%"+f.Name+"%")
	}
	if f.CategorySlug != "" {
		where += ` AND c.slug = ?`
		args = append(args, f.CategorySlug)
	}
	if f.GenreSlug != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM title_genres tg
			JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = ?)`
		args = append(args, f.GenreSlug)
	}
	if f.Year != nil {
		where += ` AND t.year = ?`
		args = append(args, *f.Year)
	}

	var total int
	countQ := `SELECT COUNT(*) FROM titles t JOIN categories c ON c.id = t.category_id` + where
	if err := db.QueryRow(countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(selectQuery+where+` ORDER BY t.id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []models.Title
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range res {
		if res[i].Genres, err = loadGenres(db, res[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return res, total, nil
}

// Exists reports whether a title with the same (name, category)
// already exists. Checked on create only.
func Exists(db *sql.DB, name string, categoryID int64) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM titles WHERE name = ? AND category_id = ?`,
		name, categoryID).Scan(&n)
	return n > 0, err
}

// Create inserts the title and its genre associations in one
// transaction so a concurrent duplicate loses atomically.
func Create(db *sql.DB, t *models.Title, genreIDs []int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`INSERT INTO titles(name, year, description, category_id) VALUES(?,?,?,?)`,
		t.Name, t.Year, t.Description, t.Category.ID)
	if err != nil {
		return err
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	for _, gid := range genreIDs {
		if _, err := tx.Exec(`INSERT INTO title_genres(title_id, genre_id) VALUES(?,?)`,
			t.ID, gid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update rewrites the scalar fields and, when genreIDs is non-nil,
// replaces the genre set.
func Update(db *sql.DB, t models.Title, genreIDs []int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`UPDATE titles SET name=?, year=?, description=?, category_id=? WHERE id=?`,
		t.Name, t.Year, t.Description, t.Category.ID, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if genreIDs != nil {
		if _, err := tx.Exec(`DELETE FROM title_genres WHERE title_id = ?`, t.ID); err != nil {
			return err
		}
		for _, gid := range genreIDs {
			if _, err := tx.Exec(`INSERT INTO title_genres(title_id, genre_id) VALUES(?,?)`,
				t.ID, gid); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Delete cascades to the title's reviews and their comments.
func Delete(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM titles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
