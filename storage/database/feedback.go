package database

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core/feedback"
)

type recordRow struct {
	ID           int64     `db:"id"`
	StudentName  string    `db:"student_name"`
	StudentEmail string    `db:"student_email"`
	FacultyName  string    `db:"faculty_name"`
	Course       string    `db:"course"`
	Rating       int       `db:"rating"`
	Comments     string    `db:"comments"`
	Date         string    `db:"date"`
	SubmittedAt  time.Time `db:"submitted_at"`
}

func rowFromRecord(rec feedback.Record) recordRow {
	return recordRow{
		ID:           rec.ID,
		StudentName:  rec.StudentName,
		StudentEmail: rec.StudentEmail,
		FacultyName:  rec.FacultyName,
		Course:       rec.Course,
		Rating:       rec.Rating,
		Comments:     rec.Comments,
		Date:         rec.Date,
		SubmittedAt:  rec.SubmittedAt.UTC(),
	}
}

func recordFromRow(row recordRow) feedback.Record {
	return feedback.Record{
		ID:           row.ID,
		StudentName:  row.StudentName,
		StudentEmail: row.StudentEmail,
		FacultyName:  row.FacultyName,
		Course:       row.Course,
		Rating:       row.Rating,
		Comments:     row.Comments,
		Date:         row.Date,
		SubmittedAt:  row.SubmittedAt,
	}
}

type FeedbackRepository struct {
	db *sqlx.DB
}

var _ feedback.Repository = (*FeedbackRepository)(nil)

func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (repo *FeedbackRepository) CreateRecord(rec feedback.Record) (feedback.Record, error) {
	row := rowFromRecord(rec)
	_, err := repo.db.NamedExec(`
		INSERT INTO feedback (id, student_name, student_email, faculty_name, course, rating, comments, date, submitted_at)
		VALUES (:id, :student_name, :student_email, :faculty_name, :course, :rating, :comments, :date, :submitted_at)`, row)
	if err != nil {
		return feedback.Record{}, errors.Wrap(err, "inserting feedback record")
	}
	return rec, nil
}

func (repo *FeedbackRepository) QueryAllRecords() ([]feedback.Record, error) {
	var rows []recordRow
	if err := repo.db.Select(&rows, `SELECT * FROM feedback ORDER BY rowid`); err != nil {
		return nil, errors.Wrap(err, "querying feedback records")
	}
	records := make([]feedback.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromRow(row))
	}
	return records, nil
}

// HasRecordCollection approximates collection presence with row presence: an
// empty table reads as absent and triggers reseeding, unlike the document
// backend where an emptied-but-present collection stays empty.
func (repo *FeedbackRepository) HasRecordCollection() (bool, error) {
	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM feedback`); err != nil {
		return false, errors.Wrap(err, "counting feedback records")
	}
	return count > 0, nil
}
