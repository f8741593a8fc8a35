// internal/models/user_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("s3cret!pass"))

	assert.NotEqual(t, "s3cret!pass", user.PasswordHash)
	assert.NoError(t, user.CheckPassword("s3cret!pass"))
	assert.Error(t, user.CheckPassword("wrong"))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: UserRoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: UserRoleUser}).IsAdmin())
}

func TestPublicProfileOmitsPrivateFields(t *testing.T) {
	user := &User{Name: "alice", Email: "alice@example.com"}
	require.NoError(t, user.SetPassword("s3cret!pass"))

	profile := user.PublicProfile()

	assert.Equal(t, "alice", profile["name"])
	assert.NotContains(t, profile, "email")
	assert.NotContains(t, profile, "password_hash")
	assert.NotContains(t, profile, "last_login")
}
