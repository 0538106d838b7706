package user

import (
	"database/sql"
	"errors"
	"fmt"

	"reviewhub/pkg/models"
)

var ErrNotFound = errors.New("user not found")

const cols = `id, username, email, first_name, last_name, bio, role, confirmation_code`

func scan(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Bio, &u.Role, &u.ConfirmationCode)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func Create(db *sql.DB, u *models.User) error {
	res, err := db.Exec(`INSERT INTO users(username, email, first_name, last_name, bio, role, confirmation_code)
		VALUES(?,?,?,?,?,?,?)`,
		u.Username, u.Email, u.FirstName, u.LastName, u.Bio, u.Role, u.ConfirmationCode)
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func GetByID(db *sql.DB, id int64) (models.User, error) {
	return scan(db.QueryRow(`SELECT `+cols+` FROM users WHERE id = ?`, id))
}

func GetByUsername(db *sql.DB, username string) (models.User, error) {
	return scan(db.QueryRow(`SELECT `+cols+` FROM users WHERE username = ?`, username))
}

// GetByPair looks a user up by the exact (username, email) pair; the
// signup endpoint is idempotent for a repeated pair.
func GetByPair(db *sql.DB, username, email string) (models.User, error) {
	return scan(db.QueryRow(`SELECT `+cols+` FROM users WHERE username = ? AND email = ?`,
		username, email))
}

func GetByUsernameAndCode(db *sql.DB, username, code string) (models.User, error) {
	return scan(db.QueryRow(`SELECT `+cols+` FROM users WHERE username = ? AND confirmation_code = ?`,
		username, code))
}

// CodeTaken reports whether any user holds the given confirmation
// code. The token endpoint checks the code independently of the
// username, and code generation uses this to retry on collision.
func CodeTaken(db *sql.DB, code string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE confirmation_code = ?`, code).Scan(&n)
	return n > 0, err
}

func List(db *sql.DB, limit, offset int) ([]models.User, int, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`SELECT `+cols+` FROM users ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
			&u.Bio, &u.Role, &u.ConfirmationCode); err != nil {
			return nil, 0, err
		}
		res = append(res, u)
	}
	return res, total, rows.Err()
}

func Update(db *sql.DB, u models.User) error {
	res, err := db.Exec(`UPDATE users SET username=?, email=?, first_name=?, last_name=?, bio=?, role=?
		WHERE id = ?`,
		u.Username, u.Email, u.FirstName, u.LastName, u.Bio, u.Role, u.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func Delete(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
