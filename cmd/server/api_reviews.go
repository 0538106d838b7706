package main

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/permission"
	"reviewhub/internal/review"
	"reviewhub/internal/title"
	"reviewhub/internal/validate"
	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

// resolveReviewParent resolves the :title_id path segment, answering
// 404 when the parent title is missing.
func resolveReviewParent(c *gin.Context, db *sql.DB) (models.Title, bool) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return models.Title{}, false
	}
	t, err := title.GetByID(db, id)
	if err != nil {
		if errors.Is(err, title.ErrNotFound) {
			notFound(c)
		} else {
			dbError(c)
		}
		return models.Title{}, false
	}
	return t, true
}

func handleListReviews(c *gin.Context, db *sql.DB) {
	t, ok := resolveReviewParent(c, db)
	if !ok {
		return
	}
	limit, offset := paginate(c)
	reviews, total, err := review.List(db, t.ID, limit, offset)
	if err != nil {
		dbError(c)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	listResponse(c, total, reviews)
}

func handleGetReview(c *gin.Context, db *sql.DB) {
	t, ok := resolveReviewParent(c, db)
	if !ok {
		return
	}
	id, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	r, err := review.GetByID(db, t.ID, id)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}
	c.JSON(http.StatusOK, r)
}

// handleCreateReview stamps the author and title server-side; any
// client-supplied author or title fields are ignored.
func handleCreateReview(c *gin.Context, db *sql.DB) {
	t, ok := resolveReviewParent(c, db)
	if !ok {
		return
	}
	actor := currentUser(c)
	if !permission.CanCreateContent(actor) {
		forbidden(c)
		return
	}

	var req struct {
		Text  string `json:"text"`
		Score *int   `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	errs := fieldErrors{}
	if req.Text == "" {
		errs.add("text", "text is required")
	}
	if req.Score == nil {
		errs.add("score", "score is required")
	} else if err := validate.Score(*req.Score); err != nil {
		errs.add("score", err.Error())
	}
	if errs.abort(c) {
		return
	}

	exists, err := review.ExistsByAuthor(db, t.ID, actor.ID)
	if err != nil {
		dbError(c)
		return
	}
	if exists {
		badRequest(c, "you have already reviewed this title")
		return
	}

	r := models.Review{
		TitleID:  t.ID,
		AuthorID: actor.ID,
		Author:   actor.Username,
		Text:     req.Text,
		Score:    *req.Score,
		PubDate:  time.Now().UTC(),
	}
	if err := review.Create(db, &r); err != nil {
		// A concurrent duplicate loses on the (title, author)
		// constraint.
		if database.IsUniqueViolation(err) {
			badRequest(c, "you have already reviewed this title")
			return
		}
		dbError(c)
		return
	}

	c.JSON(http.StatusCreated, r)
}

func handleUpdateReview(c *gin.Context, db *sql.DB) {
	t, ok := resolveReviewParent(c, db)
	if !ok {
		return
	}
	id, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	r, err := review.GetByID(db, t.ID, id)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}

	if !permission.CanEditObject(currentUser(c), r.AuthorID) {
		forbidden(c)
		return
	}

	// The payload carries text and score only: author, title and
	// pub_date can never be reassigned through an update.
	var req struct {
		Text  *string `json:"text"`
		Score *int    `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	errs := fieldErrors{}
	if req.Text != nil {
		if *req.Text == "" {
			errs.add("text", "text can not be blank")
		} else {
			r.Text = *req.Text
		}
	}
	if req.Score != nil {
		if err := validate.Score(*req.Score); err != nil {
			errs.add("score", err.Error())
		} else {
			r.Score = *req.Score
		}
	}
	if errs.abort(c) {
		return
	}

	if err := review.Update(db, r); err != nil {
		dbError(c)
		return
	}
	c.JSON(http.StatusOK, r)
}

func handleDeleteReview(c *gin.Context, db *sql.DB) {
	t, ok := resolveReviewParent(c, db)
	if !ok {
		return
	}
	id, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	r, err := review.GetByID(db, t.ID, id)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}

	if !permission.CanEditObject(currentUser(c), r.AuthorID) {
		forbidden(c)
		return
	}

	if err := review.Delete(db, r.ID); err != nil {
		dbError(c)
		return
	}
	c.Status(http.StatusNoContent)
}
