// Package validate holds the field-level business rules shared by the
// API handlers and the CSV importer.
package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxUsernameLen = 150
	MaxEmailLen    = 254
	MaxNameLen     = 256
	MaxSlugLen     = 50
	MaxBioLen      = 2048
)

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// MeUsername rejects the reserved username "me" in any case. "me" is
// the path segment of the self-profile endpoint.
func MeUsername(value string) error {
	if strings.ToLower(value) == "me" {
		return errors.New("username <me> is prohibited")
	}
	return nil
}

// Username enforces the pattern and length rules: letters, digits and
// @/./+/-/_ only, at most 150 characters, and never the reserved "me".
func Username(value string) error {
	if value == "" {
		return errors.New("username is required")
	}
	if utf8.RuneCountInString(value) > MaxUsernameLen {
		return fmt.Errorf("username must be %d characters or fewer", MaxUsernameLen)
	}
	if !usernameRe.MatchString(value) {
		return errors.New("username may contain only letters, digits and @/./+/-/_")
	}
	return MeUsername(value)
}

func Email(value string) error {
	if value == "" {
		return errors.New("email is required")
	}
	if utf8.RuneCountInString(value) > MaxEmailLen {
		return fmt.Errorf("email must be %d characters or fewer", MaxEmailLen)
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return errors.New("enter a valid email address")
	}
	return nil
}

func Slug(value string) error {
	if value == "" {
		return errors.New("slug is required")
	}
	if utf8.RuneCountInString(value) > MaxSlugLen {
		return fmt.Errorf("slug must be %d characters or fewer", MaxSlugLen)
	}
	if !slugRe.MatchString(value) {
		return errors.New("slug may contain only letters, digits, hyphens and underscores")
	}
	return nil
}

func Name(value string) error {
	if value == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(value) > MaxNameLen {
		return fmt.Errorf("name must be %d characters or fewer", MaxNameLen)
	}
	return nil
}

func Bio(value string) error {
	if utf8.RuneCountInString(value) > MaxBioLen {
		return fmt.Errorf("bio must be %d characters or fewer", MaxBioLen)
	}
	return nil
}

// TitleYear rejects years after the current calendar year.
func TitleYear(value int) error {
	if value > time.Now().Year() {
		return errors.New("year can not be in the future")
	}
	return nil
}

// Score bounds a review score to [1, 10].
func Score(value int) error {
	if value < 1 {
		return errors.New("score can not be less than one")
	}
	if value > 10 {
		return errors.New("score can not be more than ten")
	}
	return nil
}
