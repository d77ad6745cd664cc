package user

import (
	"github.com/xiebiao/bookfund/internal/domain/invariant"
)

func Validate(u *User) error {
	c := invariant.New()
	c.MaxLength("first_name", u.FirstName, 50)
	c.MaxLength("last_name", u.LastName, 50)
	c.Email("email", u.Email, true)
	return c.Err()
}
