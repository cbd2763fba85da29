package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-billing-api/internal/application/billing"
	"github.com/jhoicas/stock-billing-api/internal/application/dto"
)

// BillHandler maneja facturas: creación, consultas, anulación, borrado y PDF.
type BillHandler struct {
	uc      *billing.CreateBillUseCase
	receipt *billing.ReceiptUseCase
}

// NewBillHandler construye el handler.
func NewBillHandler(uc *billing.CreateBillUseCase, receipt *billing.ReceiptUseCase) *BillHandler {
	return &BillHandler{uc: uc, receipt: receipt}
}

// Create godoc
// @Summary      Crear factura (descuenta stock de cada línea en la misma transacción)
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "Cliente, líneas, impuesto, descuento y forma de pago"
// @Success      200   {object}  dto.APIResponse{data=dto.BillResponse}
// @Failure      400   {object}  dto.APIResponse
// @Failure      404   {object}  dto.APIResponse
// @Router       /api/bills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.CreateBill(c.UserContext(), GetUserID(c), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "factura creada", out)
}

// List godoc
// @Summary      Listar facturas (opcionalmente por rango de fechas)
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Success      200   {object}  dto.APIResponse{data=[]dto.BillResponse}
// @Router       /api/bills [get]
func (h *BillHandler) List(c *fiber.Ctx) error {
	from, to, ranged, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	var out []dto.BillResponse
	if ranged {
		out, err = h.uc.ListByDateRange(c.UserContext(), from, to)
	} else {
		out, err = h.uc.List(c.UserContext())
	}
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "facturas", out)
}

// GetByID godoc
// @Summary      Obtener factura por ID
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.APIResponse{data=dto.BillResponse}
// @Failure      404  {object}  dto.APIResponse
// @Router       /api/bills/{id} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "factura encontrada", out)
}

// GetByNumber godoc
// @Summary      Obtener factura por número
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        billNumber  path  string  true  "BILL-YYYYMMDD-NNNN"
// @Success      200  {object}  dto.APIResponse{data=dto.BillResponse}
// @Failure      404  {object}  dto.APIResponse
// @Router       /api/bills/number/{billNumber} [get]
func (h *BillHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.uc.GetByNumber(c.UserContext(), c.Params("billNumber"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "factura encontrada", out)
}

// Cancel godoc
// @Summary      Anular factura (devuelve el stock con entradas IN)
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.APIResponse{data=dto.BillResponse}
// @Failure      400  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIResponse
// @Router       /api/bills/{id}/cancel [post]
func (h *BillHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"), GetUserID(c), GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "factura anulada", out)
}

// Delete godoc
// @Summary      Eliminar factura y sus líneas (solo ADMIN)
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIResponse
// @Router       /api/bills/{id} [delete]
func (h *BillHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "factura eliminada", nil)
}

// DownloadPDF godoc
// @Summary      Descargar comprobante PDF de la factura
// @Tags         bills
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.APIResponse
// @Router       /api/bills/{id}/pdf [get]
func (h *BillHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.receipt.ReceiptPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(pdfBytes)
}
