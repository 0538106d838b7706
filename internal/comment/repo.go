package comment

import (
	"database/sql"
	"errors"

	"reviewhub/pkg/models"
)

var ErrNotFound = errors.New("comment not found")

const selectQuery = `
	SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func scan(s interface{ Scan(...any) error }) (models.Comment, error) {
	var c models.Comment
	err := s.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate)
	return c, err
}

func GetByID(db *sql.DB, reviewID, id int64) (models.Comment, error) {
	c, err := scan(db.QueryRow(selectQuery+` WHERE c.id = ? AND c.review_id = ?`, id, reviewID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, ErrNotFound
	}
	return c, err
}

func List(db *sql.DB, reviewID int64, limit, offset int) ([]models.Comment, int, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM comments WHERE review_id = ?`, reviewID).
		Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(selectQuery+` WHERE c.review_id = ?
		ORDER BY c.id DESC LIMIT ? OFFSET ?`,
		reviewID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []models.Comment
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, c)
	}
	return res, total, rows.Err()
}

func Create(db *sql.DB, c *models.Comment) error {
	res, err := db.Exec(`INSERT INTO comments(review_id, author_id, text, pub_date)
		VALUES(?,?,?,?)`,
		c.ReviewID, c.AuthorID, c.Text, c.PubDate)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

// Update rewrites the text only; author and review are immutable.
func Update(db *sql.DB, c models.Comment) error {
	res, err := db.Exec(`UPDATE comments SET text=? WHERE id=?`, c.Text, c.ID)
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
	res, err := db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
