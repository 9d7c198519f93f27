package dto

import "time"

// StockMovementResponse entrada del kardex en respuestas.
type StockMovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Delta      int64     `json:"delta"`
	SourceType string    `json:"source_type"`
	SourceID   string    `json:"source_id"`
	AppliedAt  time.Time `json:"applied_at"`
	CreatedBy  string    `json:"created_by,omitempty"`
}

// StockMovementListResponse kardex de un producto con su stock vigente.
type StockMovementListResponse struct {
	ProductID string                  `json:"product_id"`
	Quantity  int64                   `json:"quantity"`
	Items     []StockMovementResponse `json:"items"`
	Page      PageResponse            `json:"page"`
}
