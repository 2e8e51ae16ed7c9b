package favorite

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/DanielSousa07/Backend-Ludus/model"
	favoritesvc "github.com/DanielSousa07/Backend-Ludus/service/favorite"
)

type Controller struct {
	Svc favoritesvc.Service
	Log *slog.Logger
}

// GET /favorites
func (ct *Controller) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	favs, err := ct.Svc.List(c.Request().Context(), uid)
	if err != nil {
		ct.Log.Error("favorites list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if favs == nil {
		favs = []model.FavoriteGame{}
	}
	return c.JSON(http.StatusOK, favs)
}

// POST /favorites/:gameId
func (ct *Controller) Add(c echo.Context) error {
	gameID, err := strconv.ParseInt(c.Param("gameId"), 10, 64)
	if err != nil || gameID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := ct.Svc.Add(c.Request().Context(), uid, gameID); err != nil {
		switch favoritesvc.Code(err) {
		case favoritesvc.ErrGameNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "jogo não encontrado"})
		case favoritesvc.ErrAlreadyFavorited:
			return c.JSON(http.StatusConflict, echo.Map{"error": "já favoritado"})
		default:
			ct.Log.Error("favorite add", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true})
}

// DELETE /favorites/:gameId
func (ct *Controller) Remove(c echo.Context) error {
	gameID, err := strconv.ParseInt(c.Param("gameId"), 10, 64)
	if err != nil || gameID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := ct.Svc.Remove(c.Request().Context(), uid, gameID); err != nil {
		ct.Log.Error("favorite remove", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// GET /favorites/check/:gameId
func (ct *Controller) Check(c echo.Context) error {
	gameID, err := strconv.ParseInt(c.Param("gameId"), 10, 64)
	if err != nil || gameID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	ok, err := ct.Svc.Check(c.Request().Context(), uid, gameID)
	if err != nil {
		ct.Log.Error("favorite check", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"isFavorite": ok})
}
