package rental

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/DanielSousa07/Backend-Ludus/model"
	rentalsvc "github.com/DanielSousa07/Backend-Ludus/service/rental"
)

type Controller struct {
	Svc rentalsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /rentals
func (ct *Controller) Create(c echo.Context) error {
	var req CreateRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gameId e endDate são obrigatórios"})
	}

	endDate, err := parseEndDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate inválido"})
	}
	uid, _ := c.Get("user_id").(int64)

	rt, err := ct.Svc.Create(c.Request().Context(), uid, req.GameID, req.CopyID, endDate)
	if err != nil {
		switch rentalsvc.Code(err) {
		case rentalsvc.ErrGameNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "jogo não encontrado"})
		case rentalsvc.ErrCopyNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exemplar não encontrado para este jogo"})
		case rentalsvc.ErrOnlyCopiesAllowed:
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "este jogo só pode ser alugado por exemplar",
				"code":  "ONLY_COPIES_ALLOWED",
			})
		case rentalsvc.ErrCopyUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "exemplar indisponível",
				"code":  "COPY_UNAVAILABLE",
			})
		case rentalsvc.ErrGameUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "jogo indisponível",
				"code":  "GAME_UNAVAILABLE",
			})
		default:
			ct.Log.Error("rental create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, rt)
}

func parseEndDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// GET /rentals/me
func (ct *Controller) My(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	rows, err := ct.Svc.MyRentals(c.Request().Context(), uid)
	if err != nil {
		ct.Log.Error("rental history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if rows == nil {
		rows = []rentalsvc.UserRentalRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

// PATCH /rentals/:id/return
func (ct *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	rt, err := ct.Svc.Return(c.Request().Context(), uid, id)
	if err != nil {
		switch rentalsvc.Code(err) {
		case rentalsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aluguel não encontrado"})
		case rentalsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "sem permissão"})
		case rentalsvc.ErrFinalized:
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "aluguel já finalizado",
				"code":  "RENTAL_FINALIZED",
			})
		default:
			ct.Log.Error("rental return", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, rt)
}

// GET /admin/rentals (admin)
func (ct *Controller) AdminList(c echo.Context) error {
	f := rentalsvc.AdminFilter{
		Query:   c.QueryParam("q"),
		Overdue: c.QueryParam("overdue") == "true",
	}
	if s := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); s != "" && s != "ALL" {
		f.Status = model.RentalStatus(s)
	}

	rows, err := ct.Svc.AdminList(c.Request().Context(), f)
	if err != nil {
		switch rentalsvc.Code(err) {
		case rentalsvc.ErrBadStatus:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status inválido"})
		default:
			ct.Log.Error("admin rental list", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	if rows == nil {
		rows = []rentalsvc.AdminRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

// PATCH /admin/rentals/:id/status (admin)
func (ct *Controller) SetStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req SetStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status é obrigatório"})
	}

	rt, err := ct.Svc.SetStatus(c.Request().Context(), id, model.RentalStatus(strings.ToUpper(req.Status)))
	if err != nil {
		switch rentalsvc.Code(err) {
		case rentalsvc.ErrBadStatus:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status inválido"})
		case rentalsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aluguel não encontrado"})
		case rentalsvc.ErrFinalized:
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "aluguel já finalizado",
				"code":  "RENTAL_FINALIZED",
			})
		default:
			ct.Log.Error("admin rental status", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, rt)
}
