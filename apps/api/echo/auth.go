package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/staff"
)

const claimsContextKey = "adminClaims"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

func GetAdminClaims(adm staff.Admin, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   adm.ID,
			ExpiresAt: now.Add(conf.AdminTokenTTL).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:   adm.Email,
		IsAdmin: true,
	}
}

// GenerateToken generates a signed JWT token string representing the admin Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

// adminMiddleware guards the admin endpoints: a valid HS256 bearer token
// with the admin claim is required.
func adminMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			raw, err := extractBearerToken(ctx)
			if err != nil {
				return err
			}

			claims := new(Claims)
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(conf.SecretKey), nil
			})
			if err != nil || !token.Valid {
				return errUnauthorized
			}
			if !claims.IsAdmin {
				return errHttpForbidden
			}

			ctx.Set(claimsContextKey, *claims)
			return next(ctx)
		}
	}
}

func extractBearerToken(ctx echo.Context) (string, error) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt")
	}
	return parts[1], nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if claims, ok := ctx.Get(claimsContextKey).(Claims); ok {
		return claims, nil
	}
	return Claims{}, errUnauthorized
}
