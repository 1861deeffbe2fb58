package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/reconciler"
)

// SyncHandler endpoints de sincronización offline.
type SyncHandler struct {
	r *reconciler.Reconciler
}

// NewSyncHandler construye el handler.
func NewSyncHandler(r *reconciler.Reconciler) *SyncHandler {
	return &SyncHandler{r: r}
}

// Push godoc
// @Summary      Enviar registros generados offline
// @Description  Idempotente: lo ya existente (mismo id, o mismo SKU en productos) se ignora.
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncPushRequest  true  "Registros con id asignado por el cliente"
// @Success      200   {object}  dto.SyncPushResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /sync/push [post]
func (h *SyncHandler) Push(c *fiber.Ctx) error {
	var in dto.SyncPushRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.r.Push(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Pull godoc
// @Summary      Obtener cambios desde un cursor
// @Description  Sin since devuelve todo. Usar server_time de la respuesta como próximo since.
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        since  query  string  false  "ISO-8601 (RFC3339 o sin zona = UTC)"
// @Success      200    {object}  dto.SyncPullResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /sync/pull [get]
func (h *SyncHandler) Pull(c *fiber.Ctx) error {
	since, err := reconciler.ParseSince(c.Query("since"))
	if err != nil {
		return err
	}
	out, err := h.r.Pull(c.UserContext(), since)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
