package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmaster-api/docs"
	"github.com/jhoicas/stockmaster-api/internal/application/dto"
)

// Root godoc
// @Summary      Estado de la API
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       / [get]
func Root(c *fiber.Ctx) error {
	return c.JSON(dto.MessageResponse{Message: "StockMaster API is running"})
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /health [get]
func Health(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{Status: "healthy"})
}

// OpenAPI sirve el documento swagger embebido.
func OpenAPI(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.SendString(docs.SwaggerInfo.ReadDoc())
}
