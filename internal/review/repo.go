package review

import (
	"database/sql"
	"errors"

	"reviewhub/pkg/models"
)

var ErrNotFound = errors.New("review not found")

const selectQuery = `
	SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
	FROM reviews r
	JOIN users u ON u.id = r.author_id`

func scan(s interface{ Scan(...any) error }) (models.Review, error) {
	var r models.Review
	err := s.Scan(&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Text, &r.Score, &r.PubDate)
	return r, err
}

// GetByID resolves a review within its parent title; an id that
// belongs to another title is treated as missing.
func GetByID(db *sql.DB, titleID, id int64) (models.Review, error) {
	r, err := scan(db.QueryRow(selectQuery+` WHERE r.id = ? AND r.title_id = ?`, id, titleID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, ErrNotFound
	}
	return r, err
}

func List(db *sql.DB, titleID int64, limit, offset int) ([]models.Review, int, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM reviews WHERE title_id = ?`, titleID).
		Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(selectQuery+` WHERE r.title_id = ?
		ORDER BY r.pub_date DESC, r.id DESC LIMIT ? OFFSET ?`,
		titleID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []models.Review
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, r)
	}
	return res, total, rows.Err()
}

// ExistsByAuthor reports whether the author already reviewed the
// title. At most one review per (author, title) pair.
func ExistsByAuthor(db *sql.DB, titleID, authorID int64) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM reviews WHERE title_id = ? AND author_id = ?`,
		titleID, authorID).Scan(&n)
	return n > 0, err
}

func Create(db *sql.DB, r *models.Review) error {
	res, err := db.Exec(`INSERT INTO reviews(title_id, author_id, text, score, pub_date)
		VALUES(?,?,?,?,?)`,
		r.TitleID, r.AuthorID, r.Text, r.Score, r.PubDate)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// Update rewrites text and score only; author, title and pub_date are
// immutable after creation.
func Update(db *sql.DB, r models.Review) error {
	res, err := db.Exec(`UPDATE reviews SET text=?, score=? WHERE id=?`, r.Text, r.Score, r.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func Delete(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
