package gamecopy

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/DanielSousa07/Backend-Ludus/model"
	copysvc "github.com/DanielSousa07/Backend-Ludus/service/copy"
)

type Controller struct {
	Svc copysvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /games/:id/copies (admin)
func (ct *Controller) List(c echo.Context) error {
	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || gameID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	copies, err := ct.Svc.List(c.Request().Context(), gameID)
	if err != nil {
		switch copysvc.Code(err) {
		case copysvc.ErrGameNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "jogo não encontrado"})
		default:
			ct.Log.Error("copy list", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	if copies == nil {
		copies = []model.GameCopy{}
	}
	return c.JSON(http.StatusOK, copies)
}

// POST /games/:id/copies (admin)
func (ct *Controller) Create(c echo.Context) error {
	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || gameID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req CreateCopyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}

	copy, err := ct.Svc.Create(c.Request().Context(), gameID, req.Condition)
	if err != nil {
		switch copysvc.Code(err) {
		case copysvc.ErrGameNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "jogo não encontrado"})
		case copysvc.ErrNumberClash:
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflito ao gerar número do exemplar, tente novamente"})
		default:
			ct.Log.Error("copy create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, copy)
}

// PATCH /games/copies/:copyId (admin)
func (ct *Controller) Update(c echo.Context) error {
	copyID, err := strconv.ParseInt(c.Param("copyId"), 10, 64)
	if err != nil || copyID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req UpdateCopyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}

	copy, err := ct.Svc.Update(c.Request().Context(), copyID, copysvc.UpdatePatch{
		Code:      req.Code,
		Condition: req.Condition,
		Available: req.Available,
	})
	if err != nil {
		switch copysvc.Code(err) {
		case copysvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exemplar não encontrado"})
		default:
			ct.Log.Error("copy update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, copy)
}

// DELETE /games/copies/:copyId (admin)
func (ct *Controller) Delete(c echo.Context) error {
	copyID, err := strconv.ParseInt(c.Param("copyId"), 10, 64)
	if err != nil || copyID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	if err := ct.Svc.Delete(c.Request().Context(), copyID); err != nil {
		switch copysvc.Code(err) {
		case copysvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exemplar não encontrado"})
		case copysvc.ErrHasRentals:
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "exemplar possui histórico de aluguel",
				"code":  "COPY_HAS_RENTALS",
			})
		default:
			ct.Log.Error("copy delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
