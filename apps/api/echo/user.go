package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/session"
	"github.com/trezcool/maoni/core/user"
)

type authApi struct {
	svc      *user.Service
	sessions *session.Manager
	conf     *core.Config
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{
		svc:      deps.UserSvc,
		sessions: deps.Sessions,
		conf:     deps.Conf,
		validate: deps.Validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)
	ag.POST("/signup", api.signup)

	// authed endpoints
	sg := ag.Group("", jwt, sess)
	sg.POST("/logout", api.logout)
	sg.GET("/me", api.me)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(data)
	if err != nil {
		switch cause := errors.Cause(err); cause {
		case user.ErrNotFound, user.ErrWrongPassword:
			// an unknown account lands the form in Signup mode
			return ctx.JSON(http.StatusBadRequest, LoginFailure{
				Error: cause.Error(),
				Mode:  user.ModeLogin.AfterLoginError(cause),
			})
		default:
			return errors.Wrap(err, "authenticating")
		}
	}

	sess, err := api.sessions.Establish(usr)
	if err != nil {
		return errors.Wrap(err, "establishing session")
	}
	token, err := GenerateToken(api.conf, GetSessionClaims(api.conf, sess))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	redirect := homePath
	if usr.IsAdmin() {
		redirect = adminPath
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr, Redirect: redirect})
}

func (api *authApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Register(data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}

	// no session here: the new account must log in explicitly
	return ctx.JSON(http.StatusCreated, SignupResponse{
		Success: "Account created successfully! Please login.",
		Mode:    user.ModeSignup.AfterSignup(),
		User:    usr,
	})
}

func (api *authApi) logout(ctx echo.Context) error {
	if err := api.sessions.Clear(); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	return ctx.JSON(http.StatusOK, LogoutResponse{Redirect: loginPath})
}

func (api *authApi) me(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.User)
}

type (
	LoginResponse struct {
		Token    string    `json:"token"`
		User     user.User `json:"user"`
		Redirect string    `json:"redirect"`
	}

	LoginFailure struct {
		Error string    `json:"error"`
		Mode  user.Mode `json:"mode"`
	}

	SignupResponse struct {
		Success string    `json:"success"`
		Mode    user.Mode `json:"mode"`
		User    user.User `json:"user"`
	}

	LogoutResponse struct {
		Redirect string `json:"redirect"`
	}
)
