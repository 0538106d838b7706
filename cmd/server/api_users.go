package main

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/user"
	"reviewhub/internal/validate"
	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

// userPatch is the partial-update payload shared by the admin PATCH
// and the self-profile PATCH. Role is applied only by the admin
// endpoint; /users/me drops it silently.
type userPatch struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// apply copies the provided fields onto u and collects validation
// failures. withRole=false implements the immutable-role rule of the
// self-profile endpoint.
func (p userPatch) apply(u *models.User, withRole bool) fieldErrors {
	errs := fieldErrors{}
	if p.Username != nil {
		if err := validate.Username(*p.Username); err != nil {
			errs.add("username", err.Error())
		} else {
			u.Username = *p.Username
		}
	}
	if p.Email != nil {
		if err := validate.Email(*p.Email); err != nil {
			errs.add("email", err.Error())
		} else {
			u.Email = *p.Email
		}
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Bio != nil {
		if err := validate.Bio(*p.Bio); err != nil {
			errs.add("bio", err.Error())
		} else {
			u.Bio = *p.Bio
		}
	}
	if p.Role != nil && withRole {
		role := models.Role(*p.Role)
		if !role.Valid() {
			errs.add("role", "not a valid role")
		} else {
			u.Role = role
		}
	}
	return errs
}

func handleListUsers(c *gin.Context, db *sql.DB) {
	limit, offset := paginate(c)
	users, total, err := user.List(db, limit, offset)
	if err != nil {
		dbError(c)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	listResponse(c, total, users)
}

func handleCreateUser(c *gin.Context, db *sql.DB, cfg config.Config) {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Bio       string `json:"bio"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if req.Role == "" {
		req.Role = string(models.RoleUser)
	}
	errs := fieldErrors{}
	if err := validate.Username(req.Username); err != nil {
		errs.add("username", err.Error())
	}
	if err := validate.Email(req.Email); err != nil {
		errs.add("email", err.Error())
	}
	if err := validate.Bio(req.Bio); err != nil {
		errs.add("bio", err.Error())
	}
	if !models.Role(req.Role).Valid() {
		errs.add("role", "not a valid role")
	}
	if errs.abort(c) {
		return
	}

	code, err := auth.NewConfirmationCode(cfg.CodeBytes, func(code string) (bool, error) {
		return user.CodeTaken(db, code)
	})
	if err != nil {
		dbError(c)
		return
	}

	u := models.User{
		Username:         req.Username,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Bio:              req.Bio,
		Role:             models.Role(req.Role),
		ConfirmationCode: code,
	}
	if err := user.Create(db, &u); err != nil {
		if database.IsUniqueViolation(err) {
			badRequest(c, "a user with that username or email already exists")
			return
		}
		dbError(c)
		return
	}

	c.JSON(http.StatusCreated, u)
}

func handleGetUser(c *gin.Context, db *sql.DB) {
	u, err := user.GetByUsername(db, c.Param("username"))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}
	c.JSON(http.StatusOK, u)
}

func handleUpdateUser(c *gin.Context, db *sql.DB) {
	u, err := user.GetByUsername(db, c.Param("username"))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}

	var patch userPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if patch.apply(&u, true).abort(c) {
		return
	}

	if err := user.Update(db, u); err != nil {
		if database.IsUniqueViolation(err) {
			badRequest(c, "a user with that username or email already exists")
			return
		}
		dbError(c)
		return
	}
	c.JSON(http.StatusOK, u)
}

// handleDeleteUser removes a user; the acting admin can not delete
// their own account through this endpoint.
func handleDeleteUser(c *gin.Context, db *sql.DB) {
	u, err := user.GetByUsername(db, c.Param("username"))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			notFound(c)
			return
		}
		dbError(c)
		return
	}

	if currentUser(c).ID == u.ID {
		forbidden(c)
		return
	}

	if err := user.Delete(db, u.ID); err != nil {
		dbError(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func handleUpdateMe(c *gin.Context, db *sql.DB) {
	u := *currentUser(c)

	var patch userPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	// withRole=false: a client-supplied role is dropped, never an
	// error, so users can not self-escalate.
	if patch.apply(&u, false).abort(c) {
		return
	}

	if err := user.Update(db, u); err != nil {
		if database.IsUniqueViolation(err) {
			badRequest(c, "a user with that username or email already exists")
			return
		}
		dbError(c)
		return
	}
	c.JSON(http.StatusOK, u)
}
