package docstore

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core/user"
)

// Seed admin, synthesized whenever the users collection is absent.
const (
	SeedAdminEmail    = "admin@college.edu"
	seedAdminPassword = "admin123"
)

// userDoc is the persisted shape of a user.User. The password hash is
// persisted here while the domain model hides it from serialization.
type userDoc struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Role         user.Role `json:"role"`
	PasswordHash []byte    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func docFromUser(usr user.User) userDoc {
	return userDoc{
		ID:           usr.ID,
		FirstName:    usr.FirstName,
		LastName:     usr.LastName,
		Email:        usr.Email,
		Role:         usr.Role,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
	}
}

func userFromDoc(doc userDoc) user.User {
	return user.User{
		ID:           doc.ID,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Email:        doc.Email,
		Role:         doc.Role,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}
}

type UserRepository struct {
	mu    sync.Mutex // serializes read-modify-write of the collection
	store *Store
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(store *Store) (*UserRepository, error) {
	repo := &UserRepository{store: store}
	if err := repo.ensureSeedAdmin(); err != nil {
		return nil, err
	}
	return repo, nil
}

// ensureSeedAdmin synthesizes the default admin when no users collection is
// present yet.
func (repo *UserRepository) ensureSeedAdmin() error {
	if repo.store.Has(usersKey) {
		return nil
	}
	admin := user.User{
		ID:        1,
		FirstName: "Admin",
		LastName:  "User",
		Email:     SeedAdminEmail,
		Role:      user.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := admin.SetPassword(seedAdminPassword); err != nil {
		return errors.Wrap(err, "hashing seed admin password")
	}
	return repo.store.Save(usersKey, []userDoc{docFromUser(admin)})
}

func (repo *UserRepository) load() []userDoc {
	var docs []userDoc
	repo.store.Load(usersKey, &docs)
	return docs
}

func (repo *UserRepository) CheckEmailUniqueness(email string) error {
	for _, doc := range repo.load() {
		if strings.EqualFold(doc.Email, email) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *UserRepository) CreateUser(usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	docs := repo.load()
	docs = append(docs, docFromUser(usr))
	if err := repo.store.Save(usersKey, docs); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *UserRepository) QueryAllUsers() ([]user.User, error) {
	docs := repo.load()
	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, userFromDoc(doc))
	}
	return users, nil
}

func (repo *UserRepository) GetUserByID(id int64) (user.User, error) {
	for _, doc := range repo.load() {
		if doc.ID == id {
			return userFromDoc(doc), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) GetUserByEmail(email string) (user.User, error) {
	for _, doc := range repo.load() {
		if strings.EqualFold(doc.Email, email) {
			return userFromDoc(doc), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) UpdateUserPassword(id int64, hash []byte) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	docs := repo.load()
	for i, doc := range docs {
		if doc.ID == id {
			docs[i].PasswordHash = hash
			if err := repo.store.Save(usersKey, docs); err != nil {
				return user.User{}, err
			}
			return userFromDoc(docs[i]), nil
		}
	}
	return user.User{}, user.ErrNotFound
}
