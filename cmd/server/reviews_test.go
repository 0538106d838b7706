package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/review"
	"reviewhub/pkg/models"
)

func reviewsPath(titleID int64) string {
	return fmt.Sprintf("/api/v1/titles/%d/reviews", titleID)
}

func TestReviewCreateStampsAuthor(t *testing.T) {
	r, db, _ := newTestServer(t)
	cat := seedCategory(t, db, "Books", "book")
	tl := seedTitle(t, db, "Dune", 1965, cat)
	alice := seedUser(t, db, "alice", models.RoleUser)

	// Client-supplied author is ignored; the authenticated actor is
	// stamped server-side.
	w := doJSON(t, r, http.MethodPost, reviewsPath(tl.ID), tokenFor(t, alice),
		map[string]any{"text": "great", "score": 8, "author": "mallory"})
	requireStatus(t, w, http.StatusCreated)
	body := decode(t, w)
	assert.Equal(t, "alice", body["author"])
	assert.EqualValues(t, 8, body["score"])
	assert.NotEmpty(t, body["pub_date"])
}

func TestReviewCreateRequiresAuth(t *testing.T) {
	r, db, _ := newTestServer(t)
	cat := seedCategory(t, db, "Books", "book")
	tl := seedTitle(t, db, "Dune", 1965, cat)

	w := doJSON(t, r, http.MethodPost, reviewsPath(tl.ID), "",
		map[string]any{"text": "great", "score": 8})
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestOneReviewPerAuthorPerTitle(t *testing.T) {
	r, db, _ := newTestServer(t)
	cat := seedCategory(t, db, "Books", "book")
	tl := seedTitle(t, db, "Dune", 1965, cat)
	alice := tokenFor(t, seedUser(t, db, "alice", models.RoleUser))
	bob := tokenFor(t, seedUser(t, db, "bob", models.RoleUser))

	payload := map[string]any{"text": "great", "score": 8}
	requireStatus(t, doJSON(t, r, http.MethodPost, reviewsPath(tl.ID), alice, payload),
		http.StatusCreated)
	requireStatus(t, doJSON(t, r, http.MethodPost, reviewsPath(tl.ID), alice, payload),
		http.StatusBadRequest)

	// A different author may still review the same title.
	requireStatus(t, doJSON(t, r, http.MethodPost, reviewsPath(tl.ID), bob, payload),
		http.StatusCreated)
}

func TestReviewScoreBounds(t *testing.T) {
	r, db, _ := newTestServer(t)
	cat := seedCategory(t, db, "Books", "book")
	tl := seedTitle(t, db, "Dune", 1965, cat)
	alice := tokenFor(t, seedUser(t, db, "alice", models.RoleUser))

	for _, score := range []int{0, 11, -1} {
		w := doJSON(t, r, http.MethodPost, reviewsPath(tl.ID), alice,
			map[string]any{"text": "x", "score": score})
		requireStatus(t, w, http.StatusBadRequest)
		assert.Contains(t, decode(t, w), "score")
	}
}

func TestReviewUnknownParentTitle(t *testing.T) {
	r, db, _ := newTestServer(t)
	alice := tokenFor(t, seedUser(t, db, "alice", models.RoleUser))

	requireStatus(t, doJSON(t, r, http.MethodGet, reviewsPath(999), "", nil),
		http.StatusNotFound)
	requireStatus(t, doJSON(t, r, http.MethodPost, reviewsPath(999), alice,
		map[string]any{"text": "x", "score": 5}), http.StatusNotFound)
}

func TestReviewObjectPermissions(t *testing.T) {
	r, db, _ := newTestServer(t)
	cat := seedCategory(t, db, "Books", "book")
	tl := seedTitle(t, db, "Dune", 1965, cat)
	alice := seedUser(t, db, "alice", models.RoleUser)
	stranger := tokenFor(t, seedUser(t, db, "stranger", models.RoleUser))
	mod := tokenFor(t, seedUser(t, db, "mod", models.RoleModerator))

	w := doJSON(t, r, http.MethodPost, reviewsPath(tl.ID), tokenFor(t, alice),
		map[string]any{"text": "great", "score": 8})
	requireStatus(t, w, http.StatusCreated)
	reviewID := int64(decode(t, w)["id"].(float64))
	path := fmt.Sprintf("%s/%d", reviewsPath(tl.ID), reviewID)

	// Another plain user may read but not write.
	requireStatus(t, doJSON(t, r, http.MethodGet, path, "", nil), http.StatusOK)
	requireStatus(t, doJSON(t, r, http.MethodPatch, path, stranger,
		map[string]any{"text": "hijacked"}), http.StatusForbidden)
	requireStatus(t, doJSON(t, r, http.MethodDelete, path, stranger, nil),
		http.StatusForbidden)

	// The author edits their own review.
	w = doJSON(t, r, http.MethodPatch, path, tokenFor(t, alice),
		map[string]any{"score": 3})
	requireStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 3, decode(t, w)["score"])

	// A moderator may edit and delete anyone's review.
	requireStatus(t, doJSON(t, r, http.MethodPatch, path, mod,
		map[string]any{"text": "moderated"}), http.StatusOK)
	requireStatus(t, doJSON(t, r, http.MethodDelete, path, mod, nil),
		http.StatusNoContent)
}

func TestReviewUpdateCannotReassignAuthor(t *testing.T) {
	r, db, _ := newTestServer(t)
	cat := seedCategory(t, db, "Books", "book")
	tl := seedTitle(t, db, "Dune", 1965, cat)
	alice := seedUser(t, db, "alice", models.RoleUser)

	w := doJSON(t, r, http.MethodPost, reviewsPath(tl.ID), tokenFor(t, alice),
		map[string]any{"text": "great", "score": 8})
	requireStatus(t, w, http.StatusCreated)
	reviewID := int64(decode(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("%s/%d", reviewsPath(tl.ID), reviewID), tokenFor(t, alice),
		map[string]any{"text": "edited", "author": "mallory"})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "alice", decode(t, w)["author"])
}

func TestTitleDeleteCascadesToReviews(t *testing.T) {
	r, db, _ := newTestServer(t)
	admin := tokenFor(t, seedUser(t, db, "admin", models.RoleAdmin))
	cat := seedCategory(t, db, "Books", "book")
	tl := seedTitle(t, db, "Dune", 1965, cat)
	alice := seedUser(t, db, "alice", models.RoleUser)

	w := doJSON(t, r, http.MethodPost, reviewsPath(tl.ID), tokenFor(t, alice),
		map[string]any{"text": "great", "score": 8})
	requireStatus(t, w, http.StatusCreated)
	reviewID := int64(decode(t, w)["id"].(float64))

	requireStatus(t, doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/v1/titles/%d", tl.ID), admin, nil), http.StatusNoContent)

	_, err := review.GetByID(db, tl.ID, reviewID)
	require.ErrorIs(t, err, review.ErrNotFound)
}

func TestAuthorDeleteCascadesToReviews(t *testing.T) {
	r, db, _ := newTestServer(t)
	admin := tokenFor(t, seedUser(t, db, "admin", models.RoleAdmin))
	cat := seedCategory(t, db, "Books", "book")
	tl := seedTitle(t, db, "Dune", 1965, cat)
	alice := seedUser(t, db, "alice", models.RoleUser)

	w := doJSON(t, r, http.MethodPost, reviewsPath(tl.ID), tokenFor(t, alice),
		map[string]any{"text": "great", "score": 8})
	requireStatus(t, w, http.StatusCreated)

	requireStatus(t, doJSON(t, r, http.MethodDelete, "/api/v1/users/alice", admin, nil),
		http.StatusNoContent)

	w = doJSON(t, r, http.MethodGet, reviewsPath(tl.ID), "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.EqualValues(t, 0, decode(t, w)["count"])
}
