package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
)

// StockHandler maneja movimientos y consultas del libro de stock.
type StockHandler struct {
	uc *inventory.StockLedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockLedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Update godoc
// @Summary      Registrar movimiento de stock (IN, OUT, ADJUSTMENT)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockUpdateRequest  true  "product_id, quantity, type, notes"
// @Success      200   {object}  dto.APIResponse{data=dto.StockTransactionResponse}
// @Failure      400   {object}  dto.APIResponse
// @Failure      404   {object}  dto.APIResponse
// @Router       /api/stock/update [post]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.StockUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.ApplyFromRequest(c.UserContext(), GetUserID(c), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "stock actualizado", out)
}

// ListTransactions godoc
// @Summary      Libro de stock (opcionalmente por rango de fechas)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Success      200   {object}  dto.APIResponse{data=[]dto.StockTransactionResponse}
// @Router       /api/stock/transactions [get]
func (h *StockHandler) ListTransactions(c *fiber.Ctx) error {
	from, to, ranged, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx := c.UserContext()
	if ranged {
		list, err := h.uc.ListByDateRange(ctx, from, to)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "movimientos", inventory.ToTransactionResponses(list))
	}
	list, err := h.uc.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "movimientos", inventory.ToTransactionResponses(list))
}

// ListByProduct godoc
// @Summary      Movimientos de un producto (más reciente primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200   {object}  dto.APIResponse{data=[]dto.StockTransactionResponse}
// @Router       /api/stock/transactions/product/{productId} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	list, err := h.uc.ListByProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "movimientos", inventory.ToTransactionResponses(list))
}
