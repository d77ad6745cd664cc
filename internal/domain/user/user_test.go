package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_FullName(t *testing.T) {
	t.Run("姓名齐全", func(t *testing.T) {
		assert.Equal(t, "Ann Smet", NewUser("Ann", "Smet").FullName())
	})

	t.Run("缺少姓名时回退", func(t *testing.T) {
		u := NewUser("Ann", "")
		u.ID = 12
		assert.Equal(t, "用户12", u.FullName())
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(NewUser("", "")))

	u := NewUser("Ann", "Smet")
	u.Email = "ann"
	assert.Error(t, Validate(u))
}
