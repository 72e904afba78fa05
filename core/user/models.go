package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/maoni/core"
)

// Roles
const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

var Roles = []Role{RoleStudent, RoleAdmin}

type Role string

func (r Role) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// NewUser contains information needed to sign a new User up.
type NewUser struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// Validate applies the signup checks in their user-facing precedence order:
// name presence, field presence, password strength, password match, email
// format and finally email uniqueness. The first failing check wins; its
// message replaces any previous one on screen.
func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if nu.FirstName == "" || nu.LastName == "" {
		return core.NewValidationError(errMissingName)
	}
	if nu.Email == "" || nu.Password == "" || nu.PasswordConfirm == "" {
		return core.NewValidationError(errMissingField)
	}
	if len(nu.Password) < pwdMinLen {
		return core.NewValidationError(errWeakPassword)
	}
	if nu.Password != nu.PasswordConfirm {
		return core.NewValidationError(errPasswordMismatch)
	}
	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(nu.Email)
}

// Credentials is a login attempt.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	if c.Email == "" || c.Password == "" {
		return core.NewValidationError(errMissingCredentials)
	}
	return validate.Struct(c)
}
