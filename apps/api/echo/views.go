package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/session"
	"github.com/trezcool/maoni/core/user"
)

const (
	loginPath = "/"
	homePath  = "/home"
	adminPath = "/admin"
)

type views struct {
	appName     string
	sessions    *session.Manager
	feedbackSvc *feedback.Service
}

// registerViews wires the page routes. Unlike the /api endpoints these rely
// on the persisted session alone (a fresh browser tab carries no token) and
// answer wrong-audience requests with 303 redirects.
func registerViews(app *echo.Echo, deps ServerDeps) {
	v := views{
		appName:     deps.Conf.AppName,
		sessions:    deps.Sessions,
		feedbackSvc: deps.FeedbackSvc,
	}

	app.GET(loginPath, v.login)
	app.GET(homePath, v.home)
	app.GET(adminPath, v.admin)
}

func (v *views) login(ctx echo.Context) error {
	sess, err := v.sessions.Current()
	if err != nil {
		return errors.Wrap(err, "reading session")
	}
	if sess != nil {
		if sess.User.IsAdmin() {
			return ctx.Redirect(http.StatusSeeOther, adminPath)
		}
		return ctx.Redirect(http.StatusSeeOther, homePath)
	}
	return ctx.JSON(http.StatusOK, LoginPage{
		View:    "login",
		Mode:    user.ModeLogin,
		AppName: v.appName,
	})
}

func (v *views) home(ctx echo.Context) error {
	sess, err := v.sessions.Current()
	if err != nil {
		return errors.Wrap(err, "reading session")
	}
	if sess == nil {
		return ctx.Redirect(http.StatusSeeOther, loginPath)
	}

	// first student landing populates the sample records
	if err = v.feedbackSvc.EnsureSeed(); err != nil {
		return errors.Wrap(err, "seeding records")
	}

	records, err := v.feedbackSvc.ForStudent(sess.User.Email)
	if err != nil {
		return errors.Wrap(err, "querying student records")
	}
	return ctx.JSON(http.StatusOK, HomePage{
		View:    "home",
		User:    sess.User,
		Courses: feedback.Courses,
		Summary: StudentSummary{
			Total:         len(records),
			AverageRating: feedback.AverageRating(records),
			Recent:        feedback.RecentRecords(records, 3),
		},
	})
}

func (v *views) admin(ctx echo.Context) error {
	sess, err := v.sessions.Current()
	if err != nil {
		return errors.Wrap(err, "reading session")
	}
	if sess == nil {
		return ctx.Redirect(http.StatusSeeOther, loginPath)
	}
	if !sess.User.IsAdmin() {
		return ctx.Redirect(http.StatusSeeOther, homePath)
	}

	records, err := v.feedbackSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	return ctx.JSON(http.StatusOK, AdminPage{
		View: "admin",
		User: sess.User,
		Stats: AdminStats{
			TotalFeedback: len(records),
			AverageRating: feedback.AverageRating(records),
			Courses:       len(feedback.Courses),
			CourseStats:   feedback.CourseStats(records),
		},
		Records: records,
	})
}

type (
	LoginPage struct {
		View    string    `json:"view"`
		Mode    user.Mode `json:"mode"`
		AppName string    `json:"appName"`
	}

	HomePage struct {
		View    string         `json:"view"`
		User    user.User      `json:"user"`
		Courses []string       `json:"courses"`
		Summary StudentSummary `json:"summary"`
	}

	AdminPage struct {
		View    string            `json:"view"`
		User    user.User         `json:"user"`
		Stats   AdminStats        `json:"stats"`
		Records []feedback.Record `json:"records"`
	}
)
