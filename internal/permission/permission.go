// Package permission holds the pure role predicates used by the API
// handlers. Roles form an ordered rank (user < moderator < admin <
// superuser), so every check is a rank comparison.
package permission

import "reviewhub/pkg/models"

// IsAdmin reports whether u may manage users, categories, genres and
// titles. A nil user (unauthenticated request) is never an admin.
func IsAdmin(u *models.User) bool {
	return u != nil && u.Role.Rank() >= models.RoleAdmin.Rank()
}

// IsModerator reports whether u may edit or delete other authors'
// reviews and comments.
func IsModerator(u *models.User) bool {
	return u != nil && u.Role.Rank() >= models.RoleModerator.Rank()
}

// CanCreateContent reports whether u may post reviews and comments.
// Any authenticated user qualifies regardless of role.
func CanCreateContent(u *models.User) bool {
	return u != nil
}

// CanEditObject reports whether u may mutate a review or comment
// authored by authorID: the author themselves, or anyone ranked
// moderator and above.
func CanEditObject(u *models.User, authorID int64) bool {
	if u == nil {
		return false
	}
	return u.ID == authorID || IsModerator(u)
}
