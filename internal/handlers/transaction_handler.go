package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/calendar"
	"fintrack/internal/middleware"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for recording an expense.
// A missing date is resolved to today in the caller's timezone.
type CreateTransactionRequest struct {
	Amount      money.Amount   `json:"amount" binding:"required,gt=0,money2"`
	Description string         `json:"description" binding:"max=500"`
	Date        *calendar.Date `json:"date"`
	CategoryID  *string        `json:"category_id" binding:"omitempty,uuid"`
}

// UpdateTransactionRequest represents a partial transaction update.
type UpdateTransactionRequest struct {
	Amount        *money.Amount  `json:"amount" binding:"omitempty,gt=0,money2"`
	Description   *string        `json:"description" binding:"omitempty,max=500"`
	Date          *calendar.Date `json:"date"`
	CategoryID    *string        `json:"category_id" binding:"omitempty,uuid"`
	ClearCategory bool           `json:"clear_category"`
}

// CreateTransaction handles recording a new expense
// @Summary     Create a transaction
// @Description Records an expense. When date is omitted it is resolved from the user's timezone, then the X-Timezone header, then the server default.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       X-Timezone header string                   false "IANA timezone of the caller"
// @Param       request    body   CreateTransactionRequest true  "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input or category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	tx, err := h.transactionService.CreateTransaction(
		userID, req.Amount, req.Description, req.Date, req.CategoryID, middleware.RequestTimezoneFrom(c),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", tx.ID, c.ClientIP(),
		map[string]interface{}{
			"amount":      tx.Amount.String(),
			"date":        tx.Date.String(),
			"category_id": tx.CategoryID,
		})

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// GetUserTransactions handles listing the caller's transactions
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       from_date   query string false "Earliest date (YYYY-MM-DD, inclusive)"
// @Param       to_date     query string false "Latest date (YYYY-MM-DD, inclusive)"
// @Param       category_id query string false "Category ID"
// @Param       min_amount  query string false "Minimum amount"
// @Param       max_amount  query string false "Maximum amount"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	filter, err := transactionFilterFromQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func transactionFilterFromQuery(c *gin.Context) (services.TransactionFilter, error) {
	var (
		f   services.TransactionFilter
		err error
	)
	if f.FromDate, err = queryDate(c, "from_date"); err != nil {
		return f, err
	}
	if f.ToDate, err = queryDate(c, "to_date"); err != nil {
		return f, err
	}
	if f.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		return f, err
	}
	if f.MinAmount, err = queryAmount(c, "min_amount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = queryAmount(c, "max_amount"); err != nil {
		return f, err
	}
	return f, nil
}

// GetTransactionByID handles fetching a single transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// UpdateTransaction handles a partial transaction update
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or category"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	tx, err := h.transactionService.UpdateTransaction(userID, transactionID, services.TransactionUpdate{
		Amount:        req.Amount,
		Description:   req.Description,
		Date:          req.Date,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.Amount != nil {
		changes["amount"] = req.Amount.String()
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.Date != nil {
		changes["date"] = req.Date.String()
	}
	if req.CategoryID != nil || req.ClearCategory {
		changes["category_id"] = tx.CategoryID
	}
	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transactionID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction handles logically deleting a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Deleted"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// RestoreTransaction handles undoing a logical deletion
// @Summary     Restore a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Restored transaction"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Transaction is not deleted"
// @Router      /transactions/{id}/restore [post]
func (h *TransactionHandler) RestoreTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.RestoreTransaction(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RESTORE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}
