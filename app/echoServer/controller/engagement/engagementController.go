package engagement

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	engagementsvc "github.com/DanielSousa07/Backend-Ludus/service/engagement"
)

type Controller struct {
	Svc engagementsvc.Service
	Log *slog.Logger
}

// GET /engagement/levels
func (ct *Controller) Levels(c echo.Context) error {
	return c.JSON(http.StatusOK, ct.Svc.Levels())
}

// GET /engagement/leaderboard
func (ct *Controller) Leaderboard(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := ct.Svc.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		ct.Log.Error("leaderboard", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if entries == nil {
		entries = []engagementsvc.LeaderboardEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// GET /engagement/me
func (ct *Controller) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	me, err := ct.Svc.Me(c.Request().Context(), uid)
	if err != nil {
		switch engagementsvc.Code(err) {
		case engagementsvc.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "usuário não encontrado"})
		default:
			ct.Log.Error("engagement me", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, me)
}
