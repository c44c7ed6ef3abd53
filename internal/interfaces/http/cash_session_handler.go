package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pdv-api/internal/application/cashier"
	"github.com/jhoicas/pdv-api/internal/application/dto"
)

// CashSessionHandler apertura y cierre de caja.
type CashSessionHandler struct {
	uc *cashier.CashSessionUseCase
}

// NewCashSessionHandler construye el handler.
func NewCashSessionHandler(uc *cashier.CashSessionUseCase) *CashSessionHandler {
	return &CashSessionHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir caja
// @Tags         cash-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashSessionRequest  true  "opening_amount"
// @Success      201   {object}  dto.CashSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions [post]
func (h *CashSessionHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenCashSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Open(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Close godoc
// @Summary      Cerrar caja
// @Description  Calcula system_amount (apertura + efectivo de ventas concluidas) y la diferencia con lo contado.
// @Tags         cash-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sesión"
// @Param        body  body  dto.CloseCashSessionRequest  true  "counted_amount"
// @Success      200   {object}  dto.CashSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/close [post]
func (h *CashSessionHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCashSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Close(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Current sesión abierta del usuario autenticado.
func (h *CashSessionHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *CashSessionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *CashSessionHandler) List(c *fiber.Ctx) error {
	var in dto.CashSessionFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.uc.List(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
