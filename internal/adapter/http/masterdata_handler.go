package http

import (
	"net/http"
	"strings"

	"fieldops-backend/internal/domain/access"
	ucMasterdata "fieldops-backend/internal/usecase/masterdata"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type MasterDataHandler struct {
	uc  *ucMasterdata.Usecase
	log *zap.Logger
}

func NewMasterDataHandler(uc *ucMasterdata.Usecase, log *zap.Logger) *MasterDataHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MasterDataHandler{uc: uc, log: log}
}

type createWorkOrderReq struct {
	OrderNumber string `json:"orderNumber" validate:"required,max=64"`
}

type createLineItemReq struct {
	WorkOrderID      string           `json:"workOrderId"      validate:"required,max=32"`
	Name             string           `json:"name"             validate:"required,max=255"`
	UOM              string           `json:"uom"              validate:"required,max=32"`
	Rate             *decimal.Decimal `json:"rate"             validate:"required,nonneg,dec2"`
	StandardManpower string           `json:"standardManpower"`
}

type updateRateReq struct {
	Rate *decimal.Decimal `json:"rate" validate:"required,nonneg,dec2"`
}

// Writes imply the admin role when the caller names none; any other role is refused.
func (h *MasterDataHandler) CreateWorkOrder(c echo.Context) error {
	scope, err := scopeFor(c, access.RoleAdmin, "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req createWorkOrderReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, ToFieldErrors(err))
	}
	dto, err := h.uc.CreateWorkOrder(c.Request().Context(), scope, ucMasterdata.CreateWorkOrderInput{OrderNumber: req.OrderNumber})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *MasterDataHandler) ListWorkOrders(c echo.Context) error {
	scope, err := scopeFor(c, "", "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	rows, err := h.uc.ListWorkOrders(c.Request().Context(), scope)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *MasterDataHandler) CreateLineItem(c echo.Context) error {
	scope, err := scopeFor(c, access.RoleAdmin, "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req createLineItemReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, ToFieldErrors(err))
	}
	dto, err := h.uc.CreateLineItem(c.Request().Context(), scope, ucMasterdata.CreateLineItemInput{
		WorkOrderID:      strings.TrimSpace(req.WorkOrderID),
		Name:             req.Name,
		UOM:              req.UOM,
		Rate:             *req.Rate,
		StandardManpower: req.StandardManpower,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// ListLineItems filters by ?workOrderId= when given.
func (h *MasterDataHandler) ListLineItems(c echo.Context) error {
	scope, err := scopeFor(c, "", "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	rows, err := h.uc.ListLineItems(c.Request().Context(), scope, c.QueryParam("workOrderId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *MasterDataHandler) UpdateLineItemRate(c echo.Context) error {
	scope, err := scopeFor(c, access.RoleAdmin, "")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req updateRateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, ToFieldErrors(err))
	}
	dto, err := h.uc.UpdateLineItemRate(c.Request().Context(), scope, c.Param("id"), *req.Rate)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
