package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/auth"
	"reviewhub/internal/category"
	"reviewhub/internal/config"
	"reviewhub/internal/genre"
	"reviewhub/internal/mail"
	"reviewhub/internal/title"
	"reviewhub/internal/user"
	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

const testSecret = "test-secret"

// newTestServer builds the full router over an in-memory store.
func newTestServer(t *testing.T) (*gin.Engine, *sql.DB, *mail.CaptureSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := config.Config{
		JWTSecret:     testSecret,
		TokenTTLHours: 1,
		CodeBytes:     8,
	}
	sender := &mail.CaptureSender{}
	return newRouter(db, cfg, sender), db, sender
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func seedUser(t *testing.T, db *sql.DB, username string, role models.Role) models.User {
	t.Helper()
	u := models.User{
		Username:         username,
		Email:            username + "@example.com",
		Role:             role,
		ConfirmationCode: "code-" + username,
	}
	require.NoError(t, user.Create(db, &u))
	return u
}

func tokenFor(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := auth.SignJWT([]byte(testSecret), u.ID, u.Username, time.Hour)
	require.NoError(t, err)
	return tok
}

func seedCategory(t *testing.T, db *sql.DB, name, slug string) models.Category {
	t.Helper()
	c := models.Category{Name: name, Slug: slug}
	require.NoError(t, category.Create(db, &c))
	return c
}

func seedGenre(t *testing.T, db *sql.DB, name, slug string) models.Genre {
	t.Helper()
	g := models.Genre{Name: name, Slug: slug}
	require.NoError(t, genre.Create(db, &g))
	return g
}

func seedTitle(t *testing.T, db *sql.DB, name string, year int, cat models.Category, genres ...models.Genre) models.Title {
	t.Helper()
	tl := models.Title{Name: name, Year: year, Category: cat}
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	require.NoError(t, title.Create(db, &tl, ids))
	return tl
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
