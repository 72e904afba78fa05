package user

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/trezcool/maoni/core"
)

// password policy: minimum length only
const pwdMinLen = 6

var (
	// errors
	ErrNotFound      = errors.New("No account found. Please sign up.")
	ErrWrongPassword = errors.New("Incorrect password. Please try again.")
	ErrEmailExists   = errors.New("Email already registered")

	errMissingName        = errors.New("First and last name are required")
	errMissingField       = errors.New("Please fill all fields")
	errWeakPassword       = errors.New("Password must be at least 6 characters")
	errPasswordMismatch   = errors.New("Passwords do not match")
	errMissingCredentials = errors.New("Please enter both email and password")
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists when a user already
		// holds the normalized email.
		CheckEmailUniqueness(email string) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id int64) (User, error)
		GetUserByEmail(email string) (User, error)
		UpdateUserPassword(id int64, hash []byte) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// Authenticate scans for the user holding the normalized email and checks the
// password against it. It returns ErrNotFound when no account holds the email
// (the caller switches to Signup mode) and ErrWrongPassword on a bad password.
func (svc *Service) Authenticate(creds Credentials) (User, error) {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(creds.Email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrWrongPassword
	}
	return usr, nil
}

// Register creates a new student account. It does NOT log the new user in:
// signup deliberately forces an explicit login step afterwards.
func (svc *Service) Register(nu NewUser) (User, error) {
	return svc.create(nu, RoleStudent)
}

// CreateAdmin creates an admin account. Only reachable from the admin CLI.
func (svc *Service) CreateAdmin(nu NewUser) (User, error) {
	return svc.create(nu, RoleAdmin)
}

func (svc *Service) create(nu NewUser, role Role) (User, error) {
	usr := User{
		ID:        core.NextID(),
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Email:     nu.Email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) CheckEmailUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id int64) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) ResetPassword(email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	return svc.repo.UpdateUserPassword(usr.ID, usr.PasswordHash)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.FullName(), Address: usr.Email}},
		Subject: "Welcome!",
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYour account was created successfully. Please log in at %s to submit your first feedback.",
			usr.FirstName, svc.conf.FrontendBaseURL,
		),
	})
}
