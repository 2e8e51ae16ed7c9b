package game

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/DanielSousa07/Backend-Ludus/model"
	gamerepo "github.com/DanielSousa07/Backend-Ludus/repository/game"
	gamesvc "github.com/DanielSousa07/Backend-Ludus/service/game"
)

type Controller struct {
	Svc gamesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /games
func (ct *Controller) List(c echo.Context) error {
	f := parseFilter(c)

	games, err := ct.Svc.List(c.Request().Context(), f)
	if err != nil {
		ct.Log.Error("game list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if games == nil {
		games = []model.Game{}
	}
	return c.JSON(http.StatusOK, games)
}

func parseFilter(c echo.Context) gamerepo.Filter {
	f := gamerepo.Filter{
		Query:  strings.TrimSpace(c.QueryParam("q")),
		Status: strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))),
	}

	// Indicative filters: unparsable values are ignored rather than
	// rejected, matching the frontend's habit of sending "null".
	if v, err := strconv.ParseFloat(c.QueryParam("priceMin"), 64); err == nil {
		f.PriceMin = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("priceMax"), 64); err == nil {
		f.PriceMax = &v
	}
	if v, err := strconv.Atoi(c.QueryParam("players")); err == nil {
		f.Players = &v
	}
	if v, err := strconv.Atoi(c.QueryParam("age")); err == nil {
		f.Age = &v
	}
	if v, err := strconv.Atoi(c.QueryParam("timeMax")); err == nil {
		f.TimeMax = &v
	}
	for _, part := range strings.Split(c.QueryParam("stars"), ",") {
		if s, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && s >= 1 && s <= 5 {
			f.Stars = append(f.Stars, s)
		}
	}
	return f
}

// GET /games/:id
func (ct *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	g, err := ct.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		switch gamesvc.Code(err) {
		case gamesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "jogo não encontrado"})
		default:
			ct.Log.Error("game detail", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, g)
}

// POST /games (admin)
func (ct *Controller) Create(c echo.Context) error {
	var req CreateGameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation error"})
	}
	price, err := strconv.ParseFloat(req.Price, 64)
	if err != nil || price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "preço inválido"})
	}

	g, err := ct.Svc.Create(c.Request().Context(), gamesvc.CreateInput{
		LudopediaID: req.LudopediaID,
		Title:       req.Title,
		Cover:       req.Cover,
		Price:       price,
	})
	if err != nil {
		switch gamesvc.Code(err) {
		case gamesvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dados inválidos"})
		case gamesvc.ErrLookupFailed:
			ct.Log.Error("ludopedia lookup failed", "ludopedia_id", req.LudopediaID, "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "falha na comunicação com a Ludopedia"})
		default:
			ct.Log.Error("game create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, g)
}

// PATCH /games/:id (admin)
func (ct *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req UpdateGameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}

	patch := gamesvc.UpdatePatch{
		Title:               req.Title,
		Cover:               req.Cover,
		Description:         req.Description,
		Available:           req.Available,
		AllowOriginalRental: req.AllowOriginalRental,
	}
	if req.Price != nil {
		price, err := strconv.ParseFloat(*req.Price, 64)
		if err != nil || price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "preço inválido"})
		}
		patch.Price = &price
	}

	g, err := ct.Svc.Update(c.Request().Context(), id, patch)
	if err != nil {
		switch gamesvc.Code(err) {
		case gamesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "jogo não encontrado"})
		case gamesvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "preço inválido"})
		default:
			ct.Log.Error("game update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, g)
}

// DELETE /games/:id (admin)
func (ct *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	if err := ct.Svc.Delete(c.Request().Context(), id); err != nil {
		switch gamesvc.Code(err) {
		case gamesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "jogo não encontrado"})
		case gamesvc.ErrHasRentals:
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "jogo possui histórico de aluguel",
				"code":  "GAME_HAS_RENTALS",
			})
		default:
			ct.Log.Error("game delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// GET /games/:id/can-rate
func (ct *Controller) CanRate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	ok, err := ct.Svc.CanRate(c.Request().Context(), uid, id)
	if err != nil {
		ct.Log.Error("can-rate", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"canRate": ok})
}

// POST /games/:id/rating
func (ct *Controller) Rate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req RateGameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "value deve ser de 1 a 5"})
	}
	uid, _ := c.Get("user_id").(int64)

	res, err := ct.Svc.Rate(c.Request().Context(), uid, id, req.Value)
	if err != nil {
		switch gamesvc.Code(err) {
		case gamesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "jogo não encontrado"})
		case gamesvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "value deve ser de 1 a 5"})
		case gamesvc.ErrRatingBlocked:
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "apenas quem devolveu o jogo pode avaliar",
				"code":  "RATING_NOT_ALLOWED",
			})
		default:
			ct.Log.Error("rate", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, res)
}

// GET /games/search-ludopedia (admin)
func (ct *Controller) SearchLudopedia(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "o termo de busca é obrigatório"})
	}

	results, err := ct.Svc.SearchLudopedia(q)
	if err != nil {
		ct.Log.Error("ludopedia search", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "falha na comunicação com a Ludopedia"})
	}
	return c.JSON(http.StatusOK, results)
}
