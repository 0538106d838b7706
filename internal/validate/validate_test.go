package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeUsername(t *testing.T) {
	for _, v := range []string{"me", "Me", "ME", "mE"} {
		assert.Error(t, MeUsername(v), v)
	}
	assert.NoError(t, MeUsername("meme"))
	assert.NoError(t, MeUsername("m.e"))
}

func TestUsername(t *testing.T) {
	assert.NoError(t, Username("alice"))
	assert.NoError(t, Username("user.name+tag@host-1_x"))

	assert.Error(t, Username(""))
	assert.Error(t, Username("me"))
	assert.Error(t, Username("has space"))
	assert.Error(t, Username("emojié!"))
	assert.Error(t, Username(strings.Repeat("a", MaxUsernameLen+1)))
	assert.NoError(t, Username(strings.Repeat("a", MaxUsernameLen)))
}

// Length limits count characters, not bytes, so multibyte input at
// the limit must still pass.
func TestLengthLimitsCountRunes(t *testing.T) {
	assert.NoError(t, Name(strings.Repeat("é", MaxNameLen)))
	assert.Error(t, Name(strings.Repeat("é", MaxNameLen+1)))

	assert.NoError(t, Bio(strings.Repeat("日", MaxBioLen)))
	assert.Error(t, Bio(strings.Repeat("日", MaxBioLen+1)))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("alice@example.com"))
	assert.Error(t, Email(""))
	assert.Error(t, Email("not-an-email"))
	assert.Error(t, Email("a@b@c"))
}

func TestSlug(t *testing.T) {
	assert.NoError(t, Slug("sci-fi_2"))
	assert.Error(t, Slug(""))
	assert.Error(t, Slug("no spaces"))
	assert.Error(t, Slug("no/slash"))
	assert.Error(t, Slug(strings.Repeat("x", MaxSlugLen+1)))
}

func TestTitleYear(t *testing.T) {
	now := time.Now().Year()
	assert.NoError(t, TitleYear(now))
	assert.NoError(t, TitleYear(1887))
	assert.Error(t, TitleYear(now+1))
}

func TestScore(t *testing.T) {
	assert.Error(t, Score(0))
	assert.Error(t, Score(11))
	assert.NoError(t, Score(1))
	assert.NoError(t, Score(10))
}
