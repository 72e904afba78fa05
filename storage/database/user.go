package database

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core/user"
	"github.com/trezcool/maoni/storage/docstore"
)

type userRow struct {
	ID           int64     `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	Role         user.Role `db:"role"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func rowFromUser(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		FirstName:    usr.FirstName,
		LastName:     usr.LastName,
		Email:        usr.Email,
		Role:         usr.Role,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt.UTC(),
	}
}

func userFromRow(row userRow) user.User {
	return user.User{
		ID:           row.ID,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Email:        row.Email,
		Role:         row.Role,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}
}

// trapNoRowsErr maps sql "no rows" err to user.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

type UserRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *sqlx.DB) (*UserRepository, error) {
	repo := &UserRepository{db: db}
	if err := repo.ensureSeedAdmin(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (repo *UserRepository) ensureSeedAdmin() error {
	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM users`); err != nil {
		return errors.Wrap(err, "checking seed admin")
	}
	if count > 0 {
		return nil
	}
	admin := user.User{
		ID:        1,
		FirstName: "Admin",
		LastName:  "User",
		Email:     docstore.SeedAdminEmail,
		Role:      user.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := admin.SetPassword("admin123"); err != nil {
		return errors.Wrap(err, "hashing seed admin password")
	}
	_, err := repo.CreateUser(admin)
	return err
}

func (repo *UserRepository) CheckEmailUniqueness(email string) error {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower(?))`, email)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *UserRepository) CreateUser(usr user.User) (user.User, error) {
	row := rowFromUser(usr)
	_, err := repo.db.NamedExec(`
		INSERT INTO users (id, first_name, last_name, email, role, password_hash, created_at)
		VALUES (:id, :first_name, :last_name, :email, :role, :password_hash, :created_at)`, row)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *UserRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, `SELECT * FROM users ORDER BY rowid`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, userFromRow(row))
	}
	return users, nil
}

func (repo *UserRepository) GetUserByID(id int64) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return user.User{}, trapNoRowsErr(err, "finding user by id")
	}
	return userFromRow(row), nil
}

func (repo *UserRepository) GetUserByEmail(email string) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, `SELECT * FROM users WHERE lower(email) = lower(?)`, email); err != nil {
		return user.User{}, trapNoRowsErr(err, "finding user by email")
	}
	return userFromRow(row), nil
}

func (repo *UserRepository) UpdateUserPassword(id int64, hash []byte) (user.User, error) {
	res, err := repo.db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(id)
}
