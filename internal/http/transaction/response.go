package transaction

import (
	"time"

	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

type transactionResponse struct {
	ID          string               `json:"id"`
	Date        time.Time            `json:"date"`
	Amount      float64              `json:"amount"`
	Category    transaction.Category `json:"category"`
	Status      transaction.Status   `json:"status"`
	UserID      string               `json:"user_id"`
	UserProfile string               `json:"user_profile,omitempty"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

type listResponse struct {
	Data       []transactionResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.UTC(),
		Amount:      tx.Amount,
		Category:    tx.Category,
		Status:      tx.Status,
		UserID:      tx.UserID,
		UserProfile: tx.UserProfile,
	}
}

func toListResponse(res *transaction.ListResult) listResponse {
	data := make([]transactionResponse, len(res.Data))
	for i, tx := range res.Data {
		data[i] = toResponse(tx)
	}

	return listResponse{
		Data:       data,
		Pagination: paginationResponse(res.Pagination),
	}
}
