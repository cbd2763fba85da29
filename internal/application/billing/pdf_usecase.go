package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante en PDF de una factura.
type ReceiptUseCase struct {
	billRepo  repository.BillRepository
	generator ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(billRepo repository.BillRepository, generator ReceiptPDFGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{billRepo: billRepo, generator: generator}
}

// ReceiptPDF carga la factura con sus items y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
func (uc *ReceiptUseCase) ReceiptPDF(ctx context.Context, billID string) (pdfBytes []byte, filename string, err error) {
	bill, err := uc.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if bill == nil {
		return nil, "", fmt.Errorf("%w: factura %s", domain.ErrNotFound, billID)
	}

	pdfBytes, err = uc.generator.GenerateBillReceipt(ctx, bill)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("%s.pdf", bill.BillNumber), nil
}
