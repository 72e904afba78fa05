package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core/feedback"
)

type feedbackApi struct {
	svc      *feedback.Service
	validate *validator.Validate
}

func registerFeedbackAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, deps ServerDeps) {
	api := feedbackApi{
		svc:      deps.FeedbackSvc,
		validate: deps.Validate,
	}

	fg := g.Group("/feedback", jwt, sess)
	fg.POST("", api.submit)
	fg.GET("/mine", api.mine)
	fg.GET("/summary", api.summary)

	admin := g.Group("/admin", jwt, sess, adminMiddleware())
	admin.GET("/stats", api.adminStats)
	admin.GET("/feedback", api.adminList)
}

// Handlers

func (api *feedbackApi) submit(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}

	var data feedback.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Submit(sess.User, data)
	if err != nil {
		return errors.Wrap(err, "submitting record")
	}
	return ctx.JSON(http.StatusCreated, SubmitResponse{
		Success: "Feedback submitted successfully!",
		Record:  rec,
	})
}

func (api *feedbackApi) mine(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}

	records, err := api.svc.ForStudent(sess.User.Email)
	if err != nil {
		return errors.Wrap(err, "querying student records")
	}
	return ctx.JSON(http.StatusOK, records)
}

// summary backs the student home view widgets: submission count, the
// student's own average and their most recent submissions.
func (api *feedbackApi) summary(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}

	records, err := api.svc.ForStudent(sess.User.Email)
	if err != nil {
		return errors.Wrap(err, "querying student records")
	}
	return ctx.JSON(http.StatusOK, StudentSummary{
		Total:         len(records),
		AverageRating: feedback.AverageRating(records),
		Recent:        feedback.RecentRecords(records, 3),
	})
}

func (api *feedbackApi) adminStats(ctx echo.Context) error {
	records, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	return ctx.JSON(http.StatusOK, AdminStats{
		TotalFeedback: len(records),
		AverageRating: feedback.AverageRating(records),
		Courses:       len(feedback.Courses),
		CourseStats:   feedback.CourseStats(records),
	})
}

func (api *feedbackApi) adminList(ctx echo.Context) error {
	filter, err := bindQueryFilter(ctx)
	if err != nil {
		return err
	}

	records, err := api.svc.Filter(filter)
	if err != nil {
		return errors.Wrap(err, "filtering records")
	}
	return ctx.JSON(http.StatusOK, records)
}

type (
	SubmitResponse struct {
		Success string          `json:"success"`
		Record  feedback.Record `json:"record"`
	}

	StudentSummary struct {
		Total         int               `json:"total"`
		AverageRating float64           `json:"avgRating"`
		Recent        []feedback.Record `json:"recent"`
	}

	AdminStats struct {
		TotalFeedback int                            `json:"totalFeedback"`
		AverageRating float64                        `json:"averageRating"`
		Courses       int                            `json:"courses"`
		CourseStats   map[string]feedback.CourseStat `json:"courseStats"`
	}
)
