package models

import "time"

// Role is an ordered rank: each role carries every capability of the
// roles below it.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// Rank returns the position of the role in the hierarchy, 0 for an
// unknown role.
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleModerator:
		return 2
	case RoleAdmin:
		return 3
	case RoleSuperuser:
		return 4
	}
	return 0
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// users table
type User struct {
	ID               int64  `json:"-"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Bio              string `json:"bio"`
	Role             Role   `json:"role"`
	ConfirmationCode string `json:"-"`
}

// categories / genres tables share one shape: a display name plus a
// unique slug used as the lookup key instead of the numeric id.
type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// titles table. Rating is never stored: it is the mean of the linked
// review scores computed at query time, nil when there are no reviews.
type Title struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Category    Category `json:"category"`
	Genres      []Genre  `json:"genre"`
	Rating      *float64 `json:"rating"`
}

// reviews table. Author and title are fixed at creation and can not be
// reassigned through updates.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// comments table
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}
