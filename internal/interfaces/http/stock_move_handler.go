package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
)

// StockMoveHandler maneja las peticiones HTTP para StockMove.
type StockMoveHandler struct {
	uc *inventory.StockMoveUseCase
}

// NewStockMoveHandler construye el handler.
func NewStockMoveHandler(uc *inventory.StockMoveUseCase) *StockMoveHandler {
	return &StockMoveHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar movimiento de stock
// @Description  Suma quantity (con signo) a current_stock del producto en la misma transacción.
// @Tags         stock-moves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockMoveRequest  true  "Movimiento"
// @Success      201   {object}  dto.StockMoveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /stock-moves [post]
func (h *StockMoveHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockMoveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         stock-moves
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.StockMoveResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /stock-moves/{id} [get]
func (h *StockMoveHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         stock-moves
// @Security     Bearer
// @Produce      json
// @Param        operation_id  query  string  false  "Filtrar por operación"
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        limit         query  int     false  "Límite (0 = todos)"
// @Param        offset        query  int     false  "Offset"
// @Success      200           {array}  dto.StockMoveResponse
// @Router       /stock-moves [get]
func (h *StockMoveHandler) List(c *fiber.Ctx) error {
	in := dto.StockMoveListRequest{
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)},
		OperationID: c.Query("operation_id"),
		ProductID:   c.Query("product_id"),
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar movimiento (parcial)
// @Description  No recalcula current_stock.
// @Tags         stock-moves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.UpdateStockMoveRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.StockMoveResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /stock-moves/{id} [put]
func (h *StockMoveHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockMoveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar movimiento
// @Description  Por defecto no revierte el stock; reverse=true resta la cantidad en la misma transacción.
// @Tags         stock-moves
// @Security     Bearer
// @Param        id       path   string  true   "ID del movimiento"
// @Param        reverse  query  bool    false  "Revertir el efecto en current_stock"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /stock-moves/{id} [delete]
func (h *StockMoveHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id"), c.QueryBool("reverse", false)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
