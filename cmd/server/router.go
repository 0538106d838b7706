package main

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/mail"
)

// newRouter wires every route of the v1 API. Split out of main so the
// handler tests can build the engine against an in-memory store.
func newRouter(db *sql.DB, cfg config.Config, sender mail.Sender) *gin.Engine {
	r := gin.Default()
	secret := []byte(cfg.JWTSecret)

	// Deliberately disabled operations (such as retrieving a single
	// category by slug) answer 405, not 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed,
			gin.H{"detail": fmt.Sprintf("Method %q is not allowed.", c.Request.Method)})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	})

	v1 := r.Group("/api/v1")

	// AUTH
	v1.POST("/auth/signup", func(c *gin.Context) { handleSignup(c, db, cfg, sender) })
	v1.POST("/auth/token", func(c *gin.Context) { handleToken(c, db, cfg) })

	// PUBLIC READS
	v1.GET("/categories", func(c *gin.Context) { handleListCategories(c, db) })
	v1.GET("/genres", func(c *gin.Context) { handleListGenres(c, db) })
	v1.GET("/titles", func(c *gin.Context) { handleListTitles(c, db) })
	v1.GET("/titles/:title_id", func(c *gin.Context) { handleGetTitle(c, db) })
	v1.GET("/titles/:title_id/reviews", func(c *gin.Context) { handleListReviews(c, db) })
	v1.GET("/titles/:title_id/reviews/:review_id", func(c *gin.Context) { handleGetReview(c, db) })
	v1.GET("/titles/:title_id/reviews/:review_id/comments", func(c *gin.Context) { handleListComments(c, db) })
	v1.GET("/titles/:title_id/reviews/:review_id/comments/:comment_id", func(c *gin.Context) { handleGetComment(c, db) })

	// ANY AUTHENTICATED USER
	authed := v1.Group("", auth.RequireJWT(secret), loadCurrentUser(db))
	authed.GET("/users/me", func(c *gin.Context) { handleMe(c) })
	authed.PATCH("/users/me", func(c *gin.Context) { handleUpdateMe(c, db) })
	authed.POST("/titles/:title_id/reviews", func(c *gin.Context) { handleCreateReview(c, db) })
	authed.PATCH("/titles/:title_id/reviews/:review_id", func(c *gin.Context) { handleUpdateReview(c, db) })
	authed.DELETE("/titles/:title_id/reviews/:review_id", func(c *gin.Context) { handleDeleteReview(c, db) })
	authed.POST("/titles/:title_id/reviews/:review_id/comments", func(c *gin.Context) { handleCreateComment(c, db) })
	authed.PATCH("/titles/:title_id/reviews/:review_id/comments/:comment_id", func(c *gin.Context) { handleUpdateComment(c, db) })
	authed.DELETE("/titles/:title_id/reviews/:review_id/comments/:comment_id", func(c *gin.Context) { handleDeleteComment(c, db) })

	// ADMIN ONLY
	admin := v1.Group("", auth.RequireJWT(secret), loadCurrentUser(db), requireAdmin())
	admin.POST("/categories", func(c *gin.Context) { handleCreateCategory(c, db) })
	admin.DELETE("/categories/:slug", func(c *gin.Context) { handleDeleteCategory(c, db) })
	admin.POST("/genres", func(c *gin.Context) { handleCreateGenre(c, db) })
	admin.DELETE("/genres/:slug", func(c *gin.Context) { handleDeleteGenre(c, db) })
	admin.POST("/titles", func(c *gin.Context) { handleCreateTitle(c, db) })
	admin.PATCH("/titles/:title_id", func(c *gin.Context) { handleUpdateTitle(c, db) })
	admin.DELETE("/titles/:title_id", func(c *gin.Context) { handleDeleteTitle(c, db) })
	admin.GET("/users", func(c *gin.Context) { handleListUsers(c, db) })
	admin.POST("/users", func(c *gin.Context) { handleCreateUser(c, db, cfg) })
	admin.GET("/users/:username", func(c *gin.Context) { handleGetUser(c, db) })
	admin.PATCH("/users/:username", func(c *gin.Context) { handleUpdateUser(c, db) })
	admin.DELETE("/users/:username", func(c *gin.Context) { handleDeleteUser(c, db) })

	return r
}
