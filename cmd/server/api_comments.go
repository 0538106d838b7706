package main

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/comment"
	"reviewhub/internal/permission"
	"reviewhub/internal/review"
	"reviewhub/pkg/models"
)

// resolveCommentParent walks the title -> review chain of the path,
// answering 404 as soon as a parent is missing.
func resolveCommentParent(c *gin.Context, db *sql.DB) (models.Review, bool) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return models.Review{}, false
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return models.Review{}, false
	}
	r, err := review.GetByID(db, titleID, reviewID)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			notFound(c)
		} else {
			dbError(c)
		}
		return models.Review{}, false
	}
	return r, true
}

func handleListComments(c *gin.Context, db *sql.DB) {
	r, ok := resolveCommentParent(c, db)
	if !ok {
		return
	}
	limit, offset := paginate(c)
	comments, total, err := comment.List(db, r.ID, limit, offset)
	if err != nil {
		dbError(c)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	listResponse(c, total, comments)
}

func handleGetComment(c *gin.Context, db *sql.DB) {
	r, ok := resolveCommentParent(c, db)
	if !ok {
		return
	}
	id, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	cm, err := comment.GetByID(db, r.ID, id)
	if err != nil {
		if errors.Is(err, comment.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}
	c.JSON(http.StatusOK, cm)
}

// handleCreateComment stamps the author and parent review server-side.
func handleCreateComment(c *gin.Context, db *sql.DB) {
	r, ok := resolveCommentParent(c, db)
	if !ok {
		return
	}
	actor := currentUser(c)
	if !permission.CanCreateContent(actor) {
		forbidden(c)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Text == "" {
		errs := fieldErrors{}
		errs.add("text", "text is required")
		errs.abort(c)
		return
	}

	cm := models.Comment{
		ReviewID: r.ID,
		AuthorID: actor.ID,
		Author:   actor.Username,
		Text:     req.Text,
		PubDate:  time.Now().UTC(),
	}
	if err := comment.Create(db, &cm); err != nil {
		dbError(c)
		return
	}
	c.JSON(http.StatusCreated, cm)
}

func handleUpdateComment(c *gin.Context, db *sql.DB) {
	r, ok := resolveCommentParent(c, db)
	if !ok {
		return
	}
	id, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	cm, err := comment.GetByID(db, r.ID, id)
	if err != nil {
		if errors.Is(err, comment.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}

	if !permission.CanEditObject(currentUser(c), cm.AuthorID) {
		forbidden(c)
		return
	}

	var req struct {
		Text *string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Text != nil {
		if *req.Text == "" {
			errs := fieldErrors{}
			errs.add("text", "text can not be blank")
			errs.abort(c)
			return
		}
		cm.Text = *req.Text
	}

	if err := comment.Update(db, cm); err != nil {
		dbError(c)
		return
	}
	c.JSON(http.StatusOK, cm)
}

func handleDeleteComment(c *gin.Context, db *sql.DB) {
	r, ok := resolveCommentParent(c, db)
	if !ok {
		return
	}
	id, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	cm, err := comment.GetByID(db, r.ID, id)
	if err != nil {
		if errors.Is(err, comment.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}

	if !permission.CanEditObject(currentUser(c), cm.AuthorID) {
		forbidden(c)
		return
	}

	if err := comment.Delete(db, cm.ID); err != nil {
		dbError(c)
		return
	}
	c.Status(http.StatusNoContent)
}
