package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/user"
	"github.com/trezcool/maoni/storage/docstore"
)

// NewConfig returns a test config backed by a store file under t.TempDir().
func NewConfig(t *testing.T) *core.Config {
	conf := core.NewConfig()
	conf.Debug = true
	conf.TestMode = true
	conf.Storage.Path = filepath.Join(t.TempDir(), "maoni.json")
	return conf
}

// OpenStore opens a fresh document store under t.TempDir().
func OpenStore(t *testing.T) *docstore.Store {
	store, err := docstore.Open(filepath.Join(t.TempDir(), "maoni.json"))
	if err != nil {
		t.Fatalf("OpenStore() failed: %v", err)
	}
	return store
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	first, last, email, pwd string,
	role user.Role,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        core.NextID(),
		FirstName: first,
		LastName:  last,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateRecord(
	t *testing.T,
	repo feedback.Repository,
	studentName, studentEmail, faculty, course string,
	rating int,
	comments string,
) feedback.Record {
	now := time.Now()
	rec, err := repo.CreateRecord(feedback.Record{
		ID:           core.NextID(),
		StudentName:  studentName,
		StudentEmail: studentEmail,
		FacultyName:  faculty,
		Course:       course,
		Rating:       rating,
		Comments:     comments,
		Date:         feedback.FormatDisplayDate(now),
		SubmittedAt:  now.UTC(),
	})
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
