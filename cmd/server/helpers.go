package main

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/auth"
	"reviewhub/internal/permission"
	"reviewhub/internal/user"
	"reviewhub/pkg/models"
)

const ctxCurrentUser = "current_user"

// loadCurrentUser resolves the bearer token's subject to a fresh user
// row so that role changes apply immediately and deleted users lose
// access even with a live token.
func loadCurrentUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetInt64(auth.CtxUserIDKey)
		u, err := user.GetByID(db, id)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "db error"})
			return
		}
		c.Set(ctxCurrentUser, &u)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !permission.IsAdmin(currentUser(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"detail": "You do not have permission to perform this action."})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxCurrentUser)
	if !ok {
		return nil
	}
	return v.(*models.User)
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden,
		gin.H{"detail": "You do not have permission to perform this action."})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

func dbError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "db error"})
}

// fieldErrors carries 400 responses in the field -> messages shape.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe fieldErrors) abort(c *gin.Context) bool {
	if len(fe) == 0 {
		return false
	}
	c.JSON(http.StatusBadRequest, fe)
	return true
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// paginate reads the limit/offset query params, clamping to sane
// values so a single request can not demand an unbounded result set.
func paginate(c *gin.Context) (limit, offset int) {
	limit = parseInt(c.Query("limit"), defaultPageSize)
	offset = parseInt(c.Query("offset"), 0)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func listResponse(c *gin.Context, count int, results any) {
	c.JSON(http.StatusOK, gin.H{"count": count, "results": results})
}

// pathID parses a numeric path parameter; a malformed id means the
// resource can not exist, which is a 404.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		notFound(c)
		return 0, false
	}
	return id, true
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
