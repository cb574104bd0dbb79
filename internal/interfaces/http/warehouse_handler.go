package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/smartwms/wms-api/internal/application/chat"
	"github.com/smartwms/wms-api/internal/application/dto"
	"github.com/smartwms/wms-api/internal/application/warehouse"
	"github.com/smartwms/wms-api/internal/domain"
	"github.com/smartwms/wms-api/internal/domain/entity"
)

// WarehouseHandler exposes the structured (non-conversational) warehouse
// API: inbound/outbound forms plus the read-side queries the dashboard uses.
type WarehouseHandler struct {
	dispatcher *chat.Dispatcher
	ledger     *warehouse.Ledger
}

func NewWarehouseHandler(dispatcher *chat.Dispatcher, ledger *warehouse.Ledger) *WarehouseHandler {
	return &WarehouseHandler{dispatcher: dispatcher, ledger: ledger}
}

// Inbound godoc
// @Summary      Record an inbound
// @Tags         warehouse
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InboundRequest  true  "product_id, quantity, location_id"
// @Success      200   {object}  dto.CommandResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inbound [post]
func (h *WarehouseHandler) Inbound(c *fiber.Ctx) error {
	var in dto.InboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if in.ProductID <= 0 || in.Quantity <= 0 || in.LocationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, quantity and location_id must be positive"})
	}

	res, err := h.dispatcher.FormInbound(c.UserContext(), GetUsername(c), in.ProductID, in.Quantity, in.LocationID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "product does not exist"})
		case errors.Is(err, domain.ErrLocationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LOCATION_NOT_FOUND", Message: "location does not exist"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(dto.CommandResponse{Status: "success", Message: res.Message})
}

// Outbound godoc
// @Summary      Record an outbound with greedy picking
// @Tags         warehouse
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OutboundRequest  true  "product_id, quantity"
// @Success      200   {object}  dto.CommandResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/outbound [post]
func (h *WarehouseHandler) Outbound(c *fiber.Ctx) error {
	var in dto.OutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if in.ProductID <= 0 || in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id and quantity must be positive"})
	}

	res, err := h.dispatcher.FormOutbound(c.UserContext(), GetUsername(c), in.ProductID, in.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "product does not exist"})
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}

	status := "success"
	if res.Partial {
		status = "partial"
	}
	return c.JSON(dto.CommandResponse{
		Status:              status,
		Message:             res.Message,
		PickingInstructions: res.PickingInstructions,
	})
}

// Stock godoc
// @Summary      Current stock per product
// @Tags         warehouse
// @Produce      json
// @Param        product_id  query  int  false  "filter to one product"
// @Success      200  {array}  dto.StockSummaryDTO
// @Security     BearerAuth
// @Router       /api/stock [get]
func (h *WarehouseHandler) Stock(c *fiber.Ctx) error {
	var productID *int
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id must be a positive integer"})
		}
		productID = &id
	}
	summaries, err := h.ledger.CurrentStock(c.UserContext(), productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.StockSummaryDTO{ProductName: s.ProductName, TotalQuantity: s.TotalQuantity, Locations: s.Locations})
	}
	return c.JSON(out)
}

// LocationItems godoc
// @Summary      Products held at one location
// @Tags         warehouse
// @Produce      json
// @Param        code  path  string  true  "location code, e.g. A-01-01"
// @Success      200  {array}  dto.LocationItemDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/locations/{code}/items [get]
func (h *WarehouseHandler) LocationItems(c *fiber.Ctx) error {
	code := c.Params("code")
	_, items, err := h.ledger.LocationItems(c.UserContext(), code)
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LOCATION_NOT_FOUND", Message: "location does not exist"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LocationItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LocationItemDTO{ProductName: it.ProductName, Quantity: it.Quantity})
	}
	return c.JSON(out)
}

// InboundHistory godoc
// @Summary      Recent inbound records
// @Tags         warehouse
// @Produce      json
// @Param        limit  query  int  false  "rows to return (1-50, default 5)"
// @Success      200  {array}  dto.MovementHistoryDTO
// @Security     BearerAuth
// @Router       /api/inbound/history [get]
func (h *WarehouseHandler) InboundHistory(c *fiber.Ctx) error {
	rows, err := h.ledger.RecentInbounds(c.UserContext(), limitParam(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(historyDTOs(rows))
}

// OutboundHistory godoc
// @Summary      Recent outbound records
// @Tags         warehouse
// @Produce      json
// @Param        limit  query  int  false  "rows to return (1-50, default 5)"
// @Success      200  {array}  dto.MovementHistoryDTO
// @Security     BearerAuth
// @Router       /api/outbound/history [get]
func (h *WarehouseHandler) OutboundHistory(c *fiber.Ctx) error {
	rows, err := h.ledger.RecentOutbounds(c.UserContext(), limitParam(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(historyDTOs(rows))
}

// Products godoc
// @Summary      Product catalog
// @Tags         warehouse
// @Produce      json
// @Success      200  {array}  dto.ProductDTO
// @Security     BearerAuth
// @Router       /api/products [get]
func (h *WarehouseHandler) Products(c *fiber.Ctx) error {
	products, err := h.ledger.Products(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductDTO{ID: p.ID, Name: p.Name, SKU: p.SKU, UnitPrice: p.UnitPrice.String()})
	}
	return c.JSON(out)
}

// Locations godoc
// @Summary      Storage locations
// @Tags         warehouse
// @Produce      json
// @Success      200  {array}  dto.LocationDTO
// @Security     BearerAuth
// @Router       /api/locations [get]
func (h *WarehouseHandler) Locations(c *fiber.Ctx) error {
	locations, err := h.ledger.Locations(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LocationDTO, 0, len(locations))
	for _, l := range locations {
		out = append(out, dto.LocationDTO{ID: l.ID, Code: l.Code})
	}
	return c.JSON(out)
}

func limitParam(c *fiber.Ctx) *int {
	raw := c.Query("limit")
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func historyDTOs(rows []*entity.MovementHistoryRow) []dto.MovementHistoryDTO {
	out := make([]dto.MovementHistoryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MovementHistoryDTO{
			ProductName:  r.ProductName,
			Quantity:     r.Quantity,
			OccurredAt:   r.OccurredAt,
			Counterparty: r.Counterparty,
		})
	}
	return out
}
