package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/budgeting"
	"fintrack/internal/calendar"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BudgetHandler handles budget-related requests
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
// A nil category makes an overall budget; a missing end_date is derived from
// the period.
type CreateBudgetRequest struct {
	CategoryID *string          `json:"category_id" binding:"omitempty,uuid"`
	Limit      money.Amount     `json:"limit" binding:"required,gt=0,money2"`
	Period     budgeting.Period `json:"period" binding:"required"`
	StartDate  calendar.Date    `json:"start_date" binding:"required"`
	EndDate    *calendar.Date   `json:"end_date"`
}

// UpdateBudgetRequest represents a partial budget update
type UpdateBudgetRequest struct {
	CategoryID *string           `json:"category_id" binding:"omitempty,uuid"`
	Limit      *money.Amount     `json:"limit" binding:"omitempty,gt=0,money2"`
	Period     *budgeting.Period `json:"period"`
	StartDate  *calendar.Date    `json:"start_date"`
	EndDate    *calendar.Date    `json:"end_date"`
}

// ListBudgetsQuery holds the budget list filters
type ListBudgetsQuery struct {
	Period string `form:"period" binding:"omitempty,budget_period"`
}

// CreateBudget handles the creation of a new budget
// @Summary     Create a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} services.BudgetWithProgress "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input, period, category or date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	budget, err := h.budgetService.CreateBudget(userID, req.CategoryID, req.Limit, req.Period, req.StartDate, req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{
			"category_id": req.CategoryID,
			"limit":       req.Limit.String(),
			"period":      string(req.Period),
			"start_date":  budget.StartDate.String(),
			"end_date":    budget.EndDate.String(),
		})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetUserBudgets handles listing the caller's budgets with progress
// @Summary     List budgets
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       period      query string false "weekly, monthly or yearly"
// @Param       category_id query string false "Category ID"
// @Param       active_on   query string false "Only budgets covering this date (YYYY-MM-DD)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.BudgetWithProgress] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets [get]
func (h *BudgetHandler) GetUserBudgets(c *gin.Context) {
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
	var query ListBudgetsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	var filter services.BudgetFilter
	if query.Period != "" {
		p := budgeting.Period(query.Period)
		filter.Period = &p
	}
	if filter.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.ActiveOn, err = queryDate(c, "active_on"); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.budgetService.GetUserBudgets(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudgetByID handles fetching a single budget with its progress
// @Summary     Get a budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetWithProgress "Budget"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudgetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles a partial budget update
// @Summary     Update a budget
// @Description A budget's category cannot change. Changing start_date or period without an end_date recomputes the end date.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Fields to change"
// @Success     200 {object} services.BudgetWithProgress "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input, period or date range; category changed"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, services.BudgetUpdate{
		Limit:      req.Limit,
		Period:     req.Period,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{
		"start_date": budget.StartDate.String(),
		"end_date":   budget.EndDate.String(),
	}
	if req.Limit != nil {
		changes["limit"] = req.Limit.String()
	}
	if req.Period != nil {
		changes["period"] = string(*req.Period)
	}
	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budgetID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles permanently deleting a budget
// @Summary     Delete a budget
// @Tags        budgets
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     204 "Deleted"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetBudgetProgress handles fetching only the computed progress of a budget
// @Summary     Get budget progress
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} budgeting.Progress "Progress"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/progress [get]
func (h *BudgetHandler) GetBudgetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.budgetService.GetBudgetProgress(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
