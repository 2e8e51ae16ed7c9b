package echoServer

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DanielSousa07/Backend-Ludus/model"
	userrepo "github.com/DanielSousa07/Backend-Ludus/repository/user"
)

func RegisterMiddlewares(e *echo.Echo) {
	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
			)
			return err
		}
	}
}

// ExtractIdentity lifts sub/role out of the verified token into the echo
// context, so handlers read plain values instead of claims.
func ExtractIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(jwt.MapClaims)
			if !ok {
				if tok, okTok := c.Get("user").(*jwt.Token); okTok {
					claims, ok = tok.Claims.(jwt.MapClaims)
				}
			}
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			sub, ok := claims["sub"].(float64)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			c.Set("user_id", int64(sub))

			if role, ok := claims["role"].(string); ok {
				c.Set("user_role", role)
			}
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("user_role").(string)
			if role != string(model.RoleAdmin) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": "acesso negado, apenas administradores",
				})
			}
			return next(c)
		}
	}
}

// BlockAdmins keeps privileged accounts out of consumer-only flows.
func BlockAdmins() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("user_role").(string)
			if role == string(model.RoleAdmin) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": "admins não podem realizar esta ação",
					"code":  "ADMIN_ACTION_BLOCKED",
				})
			}
			return next(c)
		}
	}
}

// RequireVerifiedEmail gates flows that need a confirmed identity.
func RequireVerifiedEmail(ur userrepo.Repo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get("user_id").(int64)

			u, err := ur.ByID(c.Request().Context(), uid)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !u.EmailVerified {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": "verifique seu e-mail antes de continuar",
					"code":  "EMAIL_NOT_VERIFIED",
				})
			}
			return next(c)
		}
	}
}
