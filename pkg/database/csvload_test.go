package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestImportCSVDir(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()

	writeFixture(t, dir, "users.csv",
		"id,username,email,role,bio,first_name,last_name\n"+
			"1,alice,alice@example.com,,,,\n")
	writeFixture(t, dir, "category.csv", "id,name,slug\n1,Books,book\n")
	writeFixture(t, dir, "genre.csv", "id,name,slug\n1,Sci-Fi,scifi\n")
	writeFixture(t, dir, "titles.csv", "id,name,year,category\n1,Dune,1965,1\n")
	writeFixture(t, dir, "genre_title.csv", "id,title_id,genre_id\n1,1,1\n")
	writeFixture(t, dir, "review.csv",
		"id,title_id,text,author,score,pub_date\n"+
			"1,1,classic,1,9,2019-09-24 21:08:21+03:00\n")
	writeFixture(t, dir, "comments.csv",
		"id,review_id,text,author,pub_date\n"+
			"1,1,agreed,1,2019-09-24 21:50:30+03:00\n")

	n, err := ImportCSVDir(db, dir)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	// Defaulted role and generated confirmation code.
	var role, code string
	require.NoError(t, db.QueryRow(
		`SELECT role, confirmation_code FROM users WHERE username = 'alice'`).
		Scan(&role, &code))
	assert.Equal(t, "user", role)
	assert.Len(t, code, 16)

	var titles int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM titles`).Scan(&titles))
	assert.Equal(t, 1, titles)

	// Re-running the import is a no-op thanks to INSERT OR IGNORE.
	n, err = ImportCSVDir(db, dir)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestImportCSVDirSkipsMissingFiles(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	writeFixture(t, dir, "category.csv", "id,name,slug\n1,Books,book\n")

	n, err := ImportCSVDir(db, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
