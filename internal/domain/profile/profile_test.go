package profile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewProfileDefaultsUsername(t *testing.T) {
	p := NewProfile(uuid.New(), " Alice@Example.com ", "")

	assert.Equal(t, "alice@example.com", p.Email)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, RoleUser, p.Role)
	assert.Equal(t, ThemeSystem, p.Theme)
	assert.NoError(t, p.Validate())
	assert.False(t, p.IsAdmin())
}

func TestProfileValidate(t *testing.T) {
	p := NewProfile(uuid.Nil, "bob@example.com", "bob")
	assert.Error(t, p.Validate())

	p = NewProfile(uuid.New(), "not-an-email", "bob")
	assert.Error(t, p.Validate())
}

func TestThemeFromString(t *testing.T) {
	theme, ok := ThemeFromString(" Dark ")
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, theme)

	_, ok = ThemeFromString("sepia")
	assert.False(t, ok)
}
