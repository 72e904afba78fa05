package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/session"
	"github.com/trezcool/maoni/core/user"
)

const (
	jwtContextKey     = "userToken"
	contextSessionKey = "session"
)

// Claims represents the authorization claims transmitted via a JWT.
// Id (jti) carries the established session token: a JWT is only honored
// while the session slot still holds the same token, so logout revokes it.
type Claims struct {
	jwt.StandardClaims
	FirstName string    `json:"firstName,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      user.Role `json:"role,omitempty"`
	IsAdmin   bool      `json:"is_admin,omitempty"`   // -> ADMIN DASHBOARD
	IsStudent bool      `json:"is_student,omitempty"` // -> STUDENT HOME
}

func jwtMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	})
}

func GetSessionClaims(conf *core.Config, sess *session.Session) *Claims {
	now := time.Now()
	usr := sess.User
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.FormatInt(usr.ID, 10),
			Audience:  "Portal",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
			Id:        sess.Token,
		},
		FirstName: usr.FirstName,
		Email:     usr.Email,
		Role:      usr.Role,
		IsAdmin:   usr.IsAdmin(),
		IsStudent: usr.IsStudent(),
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (*session.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(*session.Session); ok {
		return sess, nil
	}
	return nil, errUnauthorized
}
