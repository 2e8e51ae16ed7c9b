package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/DanielSousa07/Backend-Ludus/model"
	authsvc "github.com/DanielSousa07/Backend-Ludus/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /auth/register
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation error", "details": err.Error()})
	}

	u, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrEmailTaken:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "e-mail já está em uso", "code": "EMAIL_TAKEN"})
		case authsvc.ErrPhoneTaken:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "telefone já cadastrado", "code": "PHONE_TAKEN"})
		case authsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dados inválidos"})
		default:
			ct.Log.Error("register failed", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Conta criada. Enviamos um código de verificação.",
		"user":    u,
	})
}

// POST /auth/login
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation error"})
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrInvalidCreds, authsvc.ErrBadInput:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "usuário ou senha inválidos"})
		default:
			ct.Log.Error("login failed", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":    u.ID,
			"nome":  u.Name,
			"email": u.Email,
			"role":  u.Role,
		},
	})
}

// POST /auth/verify-email
func (ct *Controller) VerifyEmail(c echo.Context) error {
	return ct.verify(c, ct.Svc.VerifyEmail, "E-mail verificado com sucesso!")
}

// POST /auth/verify-phone
func (ct *Controller) VerifyPhone(c echo.Context) error {
	return ct.verify(c, ct.Svc.VerifyPhone, "Telefone verificado com sucesso!")
}

func (ct *Controller) verify(c echo.Context, fn func(ctx context.Context, identifier, code string) error, okMsg string) error {
	var req model.VerifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation error"})
	}

	if err := fn(c.Request().Context(), req.Identifier, req.Code); err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "código inválido"})
		case authsvc.ErrInvalidCode:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "código inválido ou expirado"})
		case authsvc.ErrCodeExpired:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "código expirado"})
		default:
			ct.Log.Error("verify failed", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": okMsg})
}

// POST /auth/resend-email-code
func (ct *Controller) ResendEmailCode(c echo.Context) error {
	return ct.resend(c, ct.Svc.ResendEmailCode)
}

// POST /auth/resend-code
func (ct *Controller) ResendPhoneCode(c echo.Context) error {
	return ct.resend(c, ct.Svc.ResendPhoneCode)
}

func (ct *Controller) resend(c echo.Context, fn func(ctx context.Context, identifier string) error) error {
	var req model.ResendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation error"})
	}

	if err := fn(c.Request().Context(), req.Identifier); err != nil {
		var cdErr authsvc.CooldownError
		if errors.As(err, &cdErr) {
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":      "aguarde antes de reenviar",
				"code":       "WAIT_BEFORE_RESEND",
				"retryAfter": cdErr.RetryAfter,
			})
		}
		switch authsvc.Code(err) {
		case authsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "usuário não encontrado"})
		case authsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "identificador inválido"})
		default:
			ct.Log.Error("resend failed", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Novo código enviado com sucesso!"})
}
