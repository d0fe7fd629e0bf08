package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quisine/middleware"
	"quisine/models"
	"quisine/utils"
)

// GetStats returns the dashboard figures: summary, last 7 days of revenue, expense
// breakdown and best sellers.
func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.Stats.Dashboard(c.Request.Context(), middleware.Tenant(c))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ac *AdminController) GetExpenses(c *gin.Context) {
	expenses, err := ac.Stats.ListExpenses(c.Request.Context(), middleware.Tenant(c))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (ac *AdminController) AddExpense(c *gin.Context) {
	var input models.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if !sameTenant(c, input.UserID) {
		return
	}

	expense, err := ac.Stats.AddExpense(c.Request.Context(), middleware.Tenant(c), input)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}
