package feedback

import (
	"errors"
	"math"
	"time"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/user"
)

const recentCount = 3

var (
	errMissingFaculty = errors.New("Faculty name is required")
	errMissingCourse  = errors.New("Please select a course")
	errInvalidRating  = errors.New("Rating must be between 1 and 5")
)

type (
	Repository interface {
		CreateRecord(rec Record) (Record, error)
		// QueryAllRecords returns records in insertion order.
		QueryAllRecords() ([]Record, error)
		// HasRecordCollection reports whether the record collection exists at
		// all; an existing but empty collection still counts.
		HasRecordCollection() (bool, error)
	}

	CourseStat struct {
		Count         int     `json:"count"`
		AverageRating float64 `json:"avgRating"`
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit validates nothing: callers validate the NewRecord first. It stamps
// the record with the author's identity and the submission date, then appends.
func (svc *Service) Submit(author user.User, nr NewRecord) (Record, error) {
	now := time.Now()
	rec := Record{
		ID:           core.NextID(),
		StudentName:  author.FullName(),
		StudentEmail: author.Email,
		FacultyName:  nr.FacultyName,
		Course:       nr.Course,
		Rating:       nr.Rating,
		Comments:     nr.Comments,
		Date:         FormatDisplayDate(now),
		SubmittedAt:  now.UTC(),
	}
	return svc.repo.CreateRecord(rec)
}

func (svc *Service) QueryAll() ([]Record, error) {
	return svc.repo.QueryAllRecords()
}

func (svc *Service) ForStudent(email string) ([]Record, error) {
	records, err := svc.repo.QueryAllRecords()
	if err != nil {
		return nil, err
	}
	return RecordsForStudent(records, email), nil
}

func (svc *Service) RecentForStudent(email string) ([]Record, error) {
	records, err := svc.ForStudent(email)
	if err != nil {
		return nil, err
	}
	return RecentRecords(records, recentCount), nil
}

func (svc *Service) Filter(filter QueryFilter) ([]Record, error) {
	records, err := svc.repo.QueryAllRecords()
	if err != nil {
		return nil, err
	}
	return FilterRecords(records, filter), nil
}

// EnsureSeed populates the record collection with the sample records the
// first time a student lands on the home view. An existing empty collection
// is left alone.
func (svc *Service) EnsureSeed() error {
	exists, err := svc.repo.HasRecordCollection()
	if err != nil || exists {
		return err
	}
	for _, rec := range seedRecords() {
		if _, err = svc.repo.CreateRecord(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordsForStudent filters records down to one student's submissions,
// insertion order preserved.
func RecordsForStudent(records []Record, email string) []Record {
	mine := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.StudentEmail == email {
			mine = append(mine, rec)
		}
	}
	return mine
}

// RecentRecords returns the last n records, most recently submitted first.
func RecentRecords(records []Record, n int) []Record {
	if n > len(records) {
		n = len(records)
	}
	recent := make([]Record, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		recent = append(recent, records[i])
	}
	return recent
}

// FilterRecords intersects the filter's predicates; an empty filter passes
// everything through.
func FilterRecords(records []Record, filter QueryFilter) []Record {
	if filter.IsEmpty() {
		return records
	}
	matched := make([]Record, 0, len(records))
	for _, rec := range records {
		if filter.match(rec) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// AverageRating averages the records' ratings, rounded to 1 decimal place.
// 0 when records is empty.
func AverageRating(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum int
	for _, rec := range records {
		sum += rec.Rating
	}
	return math.Round(float64(sum)/float64(len(records))*10) / 10
}

// CourseStats computes the per-course record count and average rating over
// the whole catalog; a course with no records gets {0, 0}.
func CourseStats(records []Record) map[string]CourseStat {
	stats := make(map[string]CourseStat, len(Courses))
	for _, course := range Courses {
		courseRecords := FilterRecords(records, QueryFilter{Course: course})
		stats[course] = CourseStat{
			Count:         len(courseRecords),
			AverageRating: AverageRating(courseRecords),
		}
	}
	return stats
}

func seedRecords() []Record {
	now := time.Now()
	date := FormatDisplayDate(now)
	return []Record{
		{
			ID:           1,
			StudentName:  "John Doe",
			StudentEmail: "john@student.edu",
			FacultyName:  "Dr. Sarah Wilson",
			Course:       "AI Basics",
			Rating:       5,
			Comments:     "Excellent course! Dr. Wilson explains complex concepts very clearly.",
			Date:         date,
			SubmittedAt:  now.UTC(),
		},
		{
			ID:           2,
			StudentName:  "Jane Smith",
			StudentEmail: "jane@student.edu",
			FacultyName:  "Prof. Michael Brown",
			Course:       "Machine Learning",
			Rating:       4,
			Comments:     "Good course content, but could use more practical examples.",
			Date:         date,
			SubmittedAt:  now.UTC(),
		},
		{
			ID:           3,
			StudentName:  "Mike Johnson",
			StudentEmail: "mike@student.edu",
			FacultyName:  "Dr. Emily Davis",
			Course:       "Deep Learning",
			Rating:       5,
			Comments:     "Amazing course! The hands-on projects were very helpful.",
			Date:         date,
			SubmittedAt:  now.UTC(),
		},
	}
}
