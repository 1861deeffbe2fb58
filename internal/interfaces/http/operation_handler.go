package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
)

// OperationHandler maneja las peticiones HTTP para Operation.
type OperationHandler struct {
	uc *usecase.OperationUseCase
}

// NewOperationHandler construye el handler.
func NewOperationHandler(uc *usecase.OperationUseCase) *OperationHandler {
	return &OperationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear operación
// @Description  Si el body no trae created_by se usa el usuario del token.
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOperationRequest  true  "Datos de la operación"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /operations [post]
func (h *OperationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.CreatedBy == nil {
		if uid := GetUserID(c); uid != "" {
			in.CreatedBy = &uid
		}
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener operación por ID
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /operations/{id} [get]
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListMoves godoc
// @Summary      Movimientos de una operación
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {array}   dto.StockMoveResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /operations/{id}/moves [get]
func (h *OperationHandler) ListMoves(c *fiber.Ctx) error {
	out, err := h.uc.ListMoves(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar operaciones
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "receipt | delivery | internal | adjustment"
// @Param        status  query  string  false  "draft | done | synced"
// @Param        limit   query  int     false  "Límite (0 = todas)"
// @Param        offset  query  int     false  "Offset"
// @Success      200     {array}  dto.OperationResponse
// @Router       /operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	in := dto.OperationListRequest{
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)},
		Type:        c.Query("type"),
		Status:      c.Query("status"),
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar operación (parcial)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la operación"
// @Param        body  body  dto.UpdateOperationRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.OperationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /operations/{id} [put]
func (h *OperationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOperationRequest
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
// @Summary      Eliminar operación y sus movimientos
// @Description  El stock de los productos no se revierte.
// @Tags         operations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la operación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /operations/{id} [delete]
func (h *OperationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
