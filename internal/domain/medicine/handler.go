package medicine

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/zephyrixtech/clinic-next/internal/platform/apperr"
	"github.com/zephyrixtech/clinic-next/internal/platform/auth"
	"github.com/zephyrixtech/clinic-next/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medicines", h.List)
	api.GET("/medicines/low-stock", h.ListLowStock)
	api.GET("/medicines/expired", h.ListExpired)
	api.GET("/medicines/:id", h.Get)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/medicines", h.Create)
	admin.PUT("/medicines/:id", h.Update)
	admin.PUT("/medicines/:id/quantity", h.AdjustQuantity)
}

func (h *Handler) Create(c echo.Context) error {
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &m); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid medicine id")
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid medicine id")
	}
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return apperr.Validation("invalid request body")
	}
	m.ID = id
	if err := h.svc.Update(c.Request().Context(), &m); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type adjustRequest struct {
	Quantity  int    `json:"quantity"`
	Operation string `json:"operation"`
}

func (h *Handler) AdjustQuantity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid medicine id")
	}
	var req adjustRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	m, err := h.svc.AdjustQuantity(c.Request().Context(), id, req.Quantity, req.Operation)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListLowStock(c echo.Context) error {
	var threshold *int
	if raw := c.QueryParam("threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return apperr.Validation("threshold must be an integer")
		}
		threshold = &v
	}
	items, err := h.svc.ListLowStock(c.Request().Context(), threshold)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListExpired(c echo.Context) error {
	items, err := h.svc.ListExpired(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
