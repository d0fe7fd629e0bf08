package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quisine/middleware"
	"quisine/models"
	"quisine/utils"
)

// GetOrders lists the shop's orders, newest first. The kitchen screen polls it.
func (ac *AdminController) GetOrders(c *gin.Context) {
	orders, err := ac.Orders.ListOrders(c.Request.Context(), middleware.Tenant(c))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (ac *AdminController) UpdateOrderStatus(c *gin.Context) {
	var input models.OrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	order, err := ac.Orders.UpdateStatus(c.Request.Context(), middleware.Tenant(c), c.Param("orderId"), input.Status)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (ac *AdminController) DeleteOrder(c *gin.Context) {
	if err := ac.Orders.DeleteOrder(c.Request.Context(), middleware.Tenant(c), c.Param("orderId")); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Order deleted"})
}
