package entity

import "time"

// Tipos de transacción de stock.
const (
	TransactionTypeIN         = "IN"         // entrada (reposición)
	TransactionTypeOUT        = "OUT"        // salida (venta)
	TransactionTypeADJUSTMENT = "ADJUSTMENT" // ajuste absoluto
)

// StockTransaction es un registro inmutable del libro de stock.
// Se crea una sola vez por evento y nunca se edita ni se elimina.
type StockTransaction struct {
	ID              string
	ProductID       string
	Type            string
	Quantity        int
	PreviousStock   int
	NewStock        int
	Notes           string
	UserID          string
	Username        string
	TransactionDate time.Time
}
