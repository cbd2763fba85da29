package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
)

// NormalizeType pasa el tipo de transacción a mayúsculas y sin espacios ("out" -> "OUT").
func NormalizeType(txType string) string {
	return strings.ToUpper(strings.TrimSpace(txType))
}

// NextStock implementa la regla de stock del libro (servicio de dominio):
//
//	IN:         nuevo = anterior + cantidad   (cantidad > 0)
//	OUT:        nuevo = anterior - cantidad   (cantidad > 0, anterior >= cantidad)
//	ADJUSTMENT: nuevo = cantidad              (cantidad >= 0, valor absoluto)
//
// txType debe venir normalizado (ver NormalizeType).
func NextStock(txType string, previous, quantity int) (int, error) {
	switch txType {
	case entity.TransactionTypeIN:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: la cantidad de una entrada debe ser mayor a cero", domain.ErrInvalidInput)
		}
		return previous + quantity, nil
	case entity.TransactionTypeOUT:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: la cantidad de una salida debe ser mayor a cero", domain.ErrInvalidInput)
		}
		if previous < quantity {
			return 0, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, previous, quantity)
		}
		return previous - quantity, nil
	case entity.TransactionTypeADJUSTMENT:
		if quantity < 0 {
			return 0, fmt.Errorf("%w: el ajuste no puede dejar stock negativo", domain.ErrInvalidInput)
		}
		return quantity, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidTransactionType, txType)
	}
}
