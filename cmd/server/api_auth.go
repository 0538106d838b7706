package main

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/mail"
	"reviewhub/internal/user"
	"reviewhub/internal/validate"
	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

// handleSignup finds or creates the user for an exact (username,
// email) pair and always re-sends the confirmation code, so repeating
// the same signup is idempotent.
func handleSignup(c *gin.Context, db *sql.DB, cfg config.Config, sender mail.Sender) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	errs := fieldErrors{}
	if err := validate.Email(req.Email); err != nil {
		errs.add("email", err.Error())
	}
	if err := validate.Username(req.Username); err != nil {
		errs.add("username", err.Error())
	}
	if errs.abort(c) {
		return
	}

	u, err := user.GetByPair(db, req.Username, req.Email)
	switch {
	case errors.Is(err, user.ErrNotFound):
		code, err := auth.NewConfirmationCode(cfg.CodeBytes, func(code string) (bool, error) {
			return user.CodeTaken(db, code)
		})
		if err != nil {
			dbError(c)
			return
		}
		u = models.User{
			Username:         req.Username,
			Email:            req.Email,
			Role:             models.RoleUser,
			ConfirmationCode: code,
		}
		if err := user.Create(db, &u); err != nil {
			if database.IsUniqueViolation(err) {
				// The username or email is already taken by a
				// different pair.
				badRequest(c, "a user with that username or email already exists")
				return
			}
			dbError(c)
			return
		}
	case err != nil:
		dbError(c)
		return
	}

	if err := sender.SendConfirmationCode(u.Email, u.ConfirmationCode); err != nil {
		log.Printf("warn: send confirmation code to %s: %v", u.Email, err)
	}

	c.JSON(http.StatusOK, gin.H{"email": u.Email, "username": u.Username})
}

// handleToken exchanges (username, confirmation_code) for a bearer
// token. The username and the code are checked in two independent
// stages: unknown username is 404, unknown code is 400.
func handleToken(c *gin.Context, db *sql.DB, cfg config.Config) {
	var req struct {
		Username         string `json:"username"`
		ConfirmationCode string `json:"confirmation_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	errs := fieldErrors{}
	if req.Username == "" {
		errs.add("username", "username is required")
	}
	if req.ConfirmationCode == "" {
		errs.add("confirmation_code", "confirmation_code is required")
	}
	if errs.abort(c) {
		return
	}

	if _, err := user.GetByUsername(db, req.Username); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}

	taken, err := user.CodeTaken(db, req.ConfirmationCode)
	if err != nil {
		dbError(c)
		return
	}
	if !taken {
		badRequest(c, "invalid confirmation code")
		return
	}

	u, err := user.GetByUsernameAndCode(db, req.Username, req.ConfirmationCode)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Both fields exist but belong to different users.
			notFound(c)
			return
		}
		dbError(c)
		return
	}

	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	token, err := auth.SignJWT([]byte(cfg.JWTSecret), u.ID, u.Username, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "sign token failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
