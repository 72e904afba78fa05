package feedback

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/maoni/core"
)

// Courses is the fixed course catalog, in display order.
var Courses = []string{
	"AI Basics",
	"Machine Learning",
	"Deep Learning",
	"Data Science",
	"Web Development",
	"Database Management",
}

func IsValidCourse(name string) bool {
	for _, course := range Courses {
		if name == course {
			return true
		}
	}
	return false
}

const (
	MinRating = 1
	MaxRating = 5

	maxFacultyNameLen = 100
	maxCommentsLen    = 500
)

// Record is one immutable feedback submission. StudentName and StudentEmail
// are denormalized copies of the author's identity at submission time; a later
// change to the user record (none happens in this system) would not propagate.
type Record struct {
	ID           int64     `json:"id"`
	StudentName  string    `json:"studentName"`
	StudentEmail string    `json:"studentEmail"`
	FacultyName  string    `json:"facultyName"`
	Course       string    `json:"course"`
	Rating       int       `json:"rating"`
	Comments     string    `json:"comments,omitempty"`
	Date         string    `json:"date"` // display string, e.g. "1/2/2026"
	SubmittedAt  time.Time `json:"submittedAt"`
}

// FormatDisplayDate renders t the way the portal displays record dates.
func FormatDisplayDate(t time.Time) string {
	return t.Format("1/2/2006")
}

// NewRecord contains information needed to submit a feedback Record.
type NewRecord struct {
	FacultyName string `json:"facultyName" validate:"required,max=100"`
	Course      string `json:"course" validate:"required,course"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comments    string `json:"comments" validate:"max=500"`
}

// Validate applies the submission checks in their user-facing precedence
// order: faculty presence, course membership, rating bounds, then the length
// caps via struct tags.
func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.FacultyName = core.CleanString(nr.FacultyName)

	if nr.FacultyName == "" {
		return core.NewValidationError(errMissingFaculty)
	}
	if !IsValidCourse(nr.Course) {
		return core.NewValidationError(errMissingCourse)
	}
	if nr.Rating < MinRating || nr.Rating > MaxRating {
		return core.NewValidationError(errInvalidRating)
	}
	return validate.Struct(nr)
}

// QueryFilter narrows the admin feedback list. Absent fields pass through;
// present fields intersect.
type QueryFilter struct {
	Course string `query:"course"`
	Rating *int   `query:"rating"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Course == "" && qf.Rating == nil
}

func (qf *QueryFilter) Clean() {
	qf.Course = core.CleanString(qf.Course)
}

func (qf *QueryFilter) match(rec Record) bool {
	if qf.Course != "" && rec.Course != qf.Course {
		return false
	}
	if qf.Rating != nil && rec.Rating != *qf.Rating {
		return false
	}
	return true
}

var (
	courseTag  = "course"
	courseText = "Please select a course"
)

// InitValidators registers the feedback validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(courseTag, courseValidation)
	core.RegisterCustomTranslation(validate, translator, courseTag, courseText)
}

// courseValidation only allows courses from the fixed catalog.
func courseValidation(fl validator.FieldLevel) bool {
	return IsValidCourse(fl.Field().String())
}
