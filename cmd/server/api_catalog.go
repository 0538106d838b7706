package main

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/category"
	"reviewhub/internal/genre"
	"reviewhub/internal/validate"
	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

// Categories and genres are lookup tables: list+filter, create and
// delete only, addressed by slug. Single-object GET answers 405 via
// the router's NoMethod handler.

type nameSlugRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (r nameSlugRequest) validate() fieldErrors {
	errs := fieldErrors{}
	if err := validate.Name(r.Name); err != nil {
		errs.add("name", err.Error())
	}
	if err := validate.Slug(r.Slug); err != nil {
		errs.add("slug", err.Error())
	}
	return errs
}

func handleListCategories(c *gin.Context, db *sql.DB) {
	limit, offset := paginate(c)
	cats, total, err := category.List(db, c.Query("search"), limit, offset)
	if err != nil {
		dbError(c)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	listResponse(c, total, cats)
}

func handleCreateCategory(c *gin.Context, db *sql.DB) {
	var req nameSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.validate().abort(c) {
		return
	}

	cat := models.Category{Name: req.Name, Slug: req.Slug}
	if err := category.Create(db, &cat); err != nil {
		if database.IsUniqueViolation(err) {
			badRequest(c, "a category with that slug already exists")
			return
		}
		dbError(c)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func handleDeleteCategory(c *gin.Context, db *sql.DB) {
	err := category.DeleteBySlug(db, c.Param("slug"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, category.ErrNotFound):
		notFound(c)
	case database.IsForeignKeyViolation(err):
		badRequest(c, "category is referenced by titles and can not be deleted")
	default:
		dbError(c)
	}
}

func handleListGenres(c *gin.Context, db *sql.DB) {
	limit, offset := paginate(c)
	genres, total, err := genre.List(db, c.Query("search"), limit, offset)
	if err != nil {
		dbError(c)
		return
	}
	if genres == nil {
		genres = []models.Genre{}
	}
	listResponse(c, total, genres)
}

func handleCreateGenre(c *gin.Context, db *sql.DB) {
	var req nameSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.validate().abort(c) {
		return
	}

	g := models.Genre{Name: req.Name, Slug: req.Slug}
	if err := genre.Create(db, &g); err != nil {
		if database.IsUniqueViolation(err) {
			badRequest(c, "a genre with that slug already exists")
			return
		}
		dbError(c)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func handleDeleteGenre(c *gin.Context, db *sql.DB) {
	err := genre.DeleteBySlug(db, c.Param("slug"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, genre.ErrNotFound):
		notFound(c)
	default:
		dbError(c)
	}
}
