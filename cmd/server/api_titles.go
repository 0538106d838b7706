package main

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/category"
	"reviewhub/internal/genre"
	"reviewhub/internal/title"
	"reviewhub/internal/validate"
	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

// titleWriteJSON is the create/update response shape: category and
// genres echoed back as slugs, the way they were submitted.
func titleWriteJSON(t models.Title, genres []models.Genre) gin.H {
	slugs := make([]string, 0, len(genres))
	for _, g := range genres {
		slugs = append(slugs, g.Slug)
	}
	return gin.H{
		"id":          t.ID,
		"name":        t.Name,
		"year":        t.Year,
		"description": t.Description,
		"category":    t.Category.Slug,
		"genre":       slugs,
	}
}

func handleListTitles(c *gin.Context, db *sql.DB) {
	f := title.Filter{
		Name:         c.Query("name"),
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
	}
	if y := c.Query("year"); y != "" {
		year := parseInt(y, -1)
		if year < 0 {
			errs := fieldErrors{}
			errs.add("year", "enter a valid year")
			errs.abort(c)
			return
		}
		f.Year = &year
	}

	limit, offset := paginate(c)
	titles, total, err := title.List(db, f, limit, offset)
	if err != nil {
		dbError(c)
		return
	}
	if titles == nil {
		titles = []models.Title{}
	}
	listResponse(c, total, titles)
}

func handleGetTitle(c *gin.Context, db *sql.DB) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	t, err := title.GetByID(db, id)
	if err != nil {
		if errors.Is(err, title.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}
	c.JSON(http.StatusOK, t)
}

// resolveTitleRefs turns the submitted category and genre slugs into
// rows, reporting unknown slugs as field errors.
func resolveTitleRefs(db *sql.DB, categorySlug string, genreSlugs []string, errs fieldErrors) (models.Category, []models.Genre) {
	cat, err := category.GetBySlug(db, categorySlug)
	if err != nil {
		errs.add("category", "category with this slug does not exist")
	}
	genres, err := genre.GetBySlugs(db, genreSlugs)
	if err != nil {
		errs.add("genre", "genre with this slug does not exist")
	}
	return cat, genres
}

func handleCreateTitle(c *gin.Context, db *sql.DB) {
	var req struct {
		Name        string   `json:"name"`
		Year        *int     `json:"year"`
		Description *string  `json:"description"`
		Category    string   `json:"category"`
		Genre       []string `json:"genre"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	errs := fieldErrors{}
	if err := validate.Name(req.Name); err != nil {
		errs.add("name", err.Error())
	}
	if req.Year == nil {
		errs.add("year", "year is required")
	} else if err := validate.TitleYear(*req.Year); err != nil {
		errs.add("year", err.Error())
	}
	if req.Category == "" {
		errs.add("category", "category is required")
	}
	if errs.abort(c) {
		return
	}

	cat, genres := resolveTitleRefs(db, req.Category, req.Genre, errs)
	if errs.abort(c) {
		return
	}

	// Duplicate (name, category) is rejected on create only; partial
	// updates never re-run this check.
	exists, err := title.Exists(db, req.Name, cat.ID)
	if err != nil {
		dbError(c)
		return
	}
	if exists {
		badRequest(c, "title already exists")
		return
	}

	t := models.Title{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		Category:    cat,
	}
	genreIDs := make([]int64, 0, len(genres))
	for _, g := range genres {
		genreIDs = append(genreIDs, g.ID)
	}
	if err := title.Create(db, &t, genreIDs); err != nil {
		if database.IsUniqueViolation(err) {
			badRequest(c, "title already exists")
			return
		}
		dbError(c)
		return
	}

	c.JSON(http.StatusCreated, titleWriteJSON(t, genres))
}

func handleUpdateTitle(c *gin.Context, db *sql.DB) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	t, err := title.GetByID(db, id)
	if err != nil {
		if errors.Is(err, title.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}

	var req struct {
		Name        *string   `json:"name"`
		Year        *int      `json:"year"`
		Description *string   `json:"description"`
		Category    *string   `json:"category"`
		Genre       *[]string `json:"genre"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	errs := fieldErrors{}
	if req.Name != nil {
		if err := validate.Name(*req.Name); err != nil {
			errs.add("name", err.Error())
		} else {
			t.Name = *req.Name
		}
	}
	if req.Year != nil {
		if err := validate.TitleYear(*req.Year); err != nil {
			errs.add("year", err.Error())
		} else {
			t.Year = *req.Year
		}
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Category != nil {
		cat, err := category.GetBySlug(db, *req.Category)
		if err != nil {
			errs.add("category", "category with this slug does not exist")
		} else {
			t.Category = cat
		}
	}
	var genreIDs []int64
	genres := t.Genres
	if req.Genre != nil {
		resolved, err := genre.GetBySlugs(db, *req.Genre)
		if err != nil {
			errs.add("genre", "genre with this slug does not exist")
		} else {
			genres = resolved
			genreIDs = make([]int64, 0, len(resolved))
			for _, g := range resolved {
				genreIDs = append(genreIDs, g.ID)
			}
		}
	}
	if errs.abort(c) {
		return
	}

	if err := title.Update(db, t, genreIDs); err != nil {
		if database.IsUniqueViolation(err) {
			badRequest(c, "title already exists")
			return
		}
		dbError(c)
		return
	}

	c.JSON(http.StatusOK, titleWriteJSON(t, genres))
}

func handleDeleteTitle(c *gin.Context, db *sql.DB) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	if err := title.Delete(db, id); err != nil {
		if errors.Is(err, title.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}
	c.Status(http.StatusNoContent)
}
