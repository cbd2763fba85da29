package dto

import "time"

// StockUpdateRequest body para POST /api/stock/update.
// Type: IN | OUT | ADJUSTMENT (se acepta en minúsculas).
type StockUpdateRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	Type      string `json:"type" validate:"required"`
	Notes     string `json:"notes" validate:"max=500"`
}

// StockTransactionResponse registro del libro de stock.
type StockTransactionResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	Type            string    `json:"type"`
	Quantity        int       `json:"quantity"`
	PreviousStock   int       `json:"previous_stock"`
	NewStock        int       `json:"new_stock"`
	Notes           string    `json:"notes,omitempty"`
	UserID          string    `json:"user_id,omitempty"`
	Username        string    `json:"username,omitempty"`
	TransactionDate time.Time `json:"transaction_date"`
}
