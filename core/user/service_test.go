package user

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/maoni/core"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	users []User
}

var _ Repository = (*fakeRepo)(nil)

func (r *fakeRepo) CheckEmailUniqueness(email string) error {
	for _, usr := range r.users {
		if strings.EqualFold(usr.Email, email) {
			return ErrEmailExists
		}
	}
	return nil
}

func (r *fakeRepo) CreateUser(usr User) (User, error) {
	r.users = append(r.users, usr)
	return usr, nil
}

func (r *fakeRepo) QueryAllUsers() ([]User, error) {
	return r.users, nil
}

func (r *fakeRepo) GetUserByID(id int64) (User, error) {
	for _, usr := range r.users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) GetUserByEmail(email string) (User, error) {
	for _, usr := range r.users {
		if strings.EqualFold(usr.Email, email) {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) UpdateUserPassword(id int64, hash []byte) (User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].PasswordHash = hash
			return r.users[i], nil
		}
	}
	return User{}, ErrNotFound
}

func setup(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{}
	return NewService(repo, nil, &core.Config{}), repo
}

func createUser(t *testing.T, repo *fakeRepo, first, last, email, pwd string, role Role) User {
	t.Helper()
	usr := User{ID: core.NextID(), FirstName: first, LastName: last, Email: email, Role: role}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	usr, _ = repo.CreateUser(usr)
	return usr
}

func TestNewUser_Validate(t *testing.T) {
	svc, repo := setup(t)
	createUser(t, repo, "Jane", "Smith", "jane@student.edu", "secret1", RoleStudent)

	validate := validator.New()

	nu := func(first, last, email, pwd, confirm string) NewUser {
		return NewUser{FirstName: first, LastName: last, Email: email, Password: pwd, PasswordConfirm: confirm}
	}

	tests := []struct {
		name    string
		nu      NewUser
		wantErr string
	}{
		{name: "missing first name", nu: nu("", "Doe", "john@x.edu", "secret1", "secret1"), wantErr: "First and last name are required"},
		{name: "missing last name", nu: nu("John", "  ", "john@x.edu", "secret1", "secret1"), wantErr: "First and last name are required"},
		{name: "missing email", nu: nu("John", "Doe", "", "secret1", "secret1"), wantErr: "Please fill all fields"},
		{name: "missing password", nu: nu("John", "Doe", "john@x.edu", "", "secret1"), wantErr: "Please fill all fields"},
		{name: "missing confirmation", nu: nu("John", "Doe", "john@x.edu", "secret1", ""), wantErr: "Please fill all fields"},
		{name: "weak password", nu: nu("John", "Doe", "john@x.edu", "abc12", "abc12"), wantErr: "Password must be at least 6 characters"},
		{name: "password mismatch", nu: nu("John", "Doe", "john@x.edu", "secret1", "secret2"), wantErr: "Passwords do not match"},
		// name check outranks everything else
		{name: "missing name outranks weak password", nu: nu("", "", "", "abc", "nope"), wantErr: "First and last name are required"},
		{name: "duplicate email", nu: nu("John", "Doe", "jane@student.edu", "secret1", "secret1"), wantErr: "Email already registered"},
		{name: "duplicate email (case/space insensitive)", nu: nu("John", "Doe", "  JANE@Student.EDU ", "secret1", "secret1"), wantErr: "Email already registered"},
		{name: "valid", nu: nu("John", "Doe", "john@x.edu", "secret1", "secret1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(validate, svc)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("Validate() error = %v (%T), want *core.ValidationError", err, err)
			}
			var got string
			if len(vErr.Fields) > 0 {
				got = vErr.Fields[0].Error
			} else {
				got = vErr.Error()
			}
			if got != tt.wantErr {
				t.Errorf("Validate() error = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestNewUser_Validate_badEmailFormat(t *testing.T) {
	svc, _ := setup(t)
	validate := validator.New()

	nu := NewUser{FirstName: "John", LastName: "Doe", Email: "not-an-email", Password: "secret1", PasswordConfirm: "secret1"}
	err := nu.Validate(validate, svc)
	if _, ok := err.(validator.ValidationErrors); !ok {
		t.Errorf("Validate() error = %v (%T), want validator.ValidationErrors", err, err)
	}
}

func TestCredentials_Validate(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		creds   Credentials
		wantErr string
	}{
		{name: "missing email", creds: Credentials{Password: "secret1"}, wantErr: "Please enter both email and password"},
		{name: "missing password", creds: Credentials{Email: "jane@student.edu"}, wantErr: "Please enter both email and password"},
		{name: "valid", creds: Credentials{Email: "jane@student.edu", Password: "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate(validate)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := setup(t)
	jane := createUser(t, repo, "Jane", "Smith", "jane@student.edu", "secret1", RoleStudent)

	tests := []struct {
		name    string
		creds   Credentials
		want    User
		wantErr error
	}{
		{name: "unknown email", creds: Credentials{Email: "nobody@x.edu", Password: "secret1"}, wantErr: ErrNotFound},
		{name: "wrong password", creds: Credentials{Email: "jane@student.edu", Password: "nope123"}, wantErr: ErrWrongPassword},
		{name: "ok", creds: Credentials{Email: "jane@student.edu", Password: "secret1"}, want: jane},
		{name: "ok (case/space insensitive email)", creds: Credentials{Email: " JANE@Student.EDU  ", Password: "secret1"}, want: jane},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(tt.creds)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if usr.ID != tt.want.ID {
				t.Errorf("Authenticate() = %v, want %v", usr, tt.want)
			}
		})
	}
}

func TestService_Register(t *testing.T) {
	svc, repo := setup(t)

	usr, err := svc.Register(NewUser{
		FirstName:       "John",
		LastName:        "Doe",
		Email:           "john@student.edu",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if usr.Role != RoleStudent {
		t.Errorf("Register() role = %v, want %v", usr.Role, RoleStudent)
	}
	if usr.ID == 0 {
		t.Error("Register() did not assign an ID")
	}
	if err = usr.CheckPassword("secret1"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	if len(repo.users) != 1 {
		t.Errorf("Register() stored %d users, want 1", len(repo.users))
	}
}

func TestService_CreateAdmin(t *testing.T) {
	svc, _ := setup(t)

	usr, err := svc.CreateAdmin(NewUser{
		FirstName:       "Root",
		LastName:        "Admin",
		Email:           "root@college.edu",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	})
	if err != nil {
		t.Fatalf("CreateAdmin() failed: %v", err)
	}
	if !usr.IsAdmin() {
		t.Errorf("CreateAdmin() role = %v, want %v", usr.Role, RoleAdmin)
	}
}

func TestService_ResetPassword(t *testing.T) {
	svc, repo := setup(t)
	jane := createUser(t, repo, "Jane", "Smith", "jane@student.edu", "secret1", RoleStudent)

	if _, err := svc.ResetPassword("nobody@x.edu", "newpass1"); err != ErrNotFound {
		t.Errorf("ResetPassword() error = %v, want %v", err, ErrNotFound)
	}

	usr, err := svc.ResetPassword("jane@student.edu", "newpass1")
	if err != nil {
		t.Fatalf("ResetPassword() failed: %v", err)
	}
	if usr.ID != jane.ID {
		t.Errorf("ResetPassword() = %v, want %v", usr.ID, jane.ID)
	}
	if err = usr.CheckPassword("newpass1"); err != nil {
		t.Errorf("CheckPassword(new) failed: %v", err)
	}
	if err = usr.CheckPassword("secret1"); err == nil {
		t.Error("CheckPassword(old) still passes")
	}
}
