// Package handlers serves the public storefront that customers reach from a table QR code.
// Nothing here requires authentication.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quisine/models"
	"quisine/services"
	"quisine/utils"
)

type StorefrontHandler struct {
	Shops  services.ShopService
	Orders services.OrderService
}

func NewStorefrontHandler(shops services.ShopService, orders services.OrderService) *StorefrontHandler {
	return &StorefrontHandler{Shops: shops, Orders: orders}
}

// GetPublicMenu returns {shop, menu} with the shop's email and staff removed.
func (h *StorefrontHandler) GetPublicMenu(c *gin.Context) {
	shop, menu, err := h.Shops.PublicMenu(c.Request.Context(), c.Param("shopId"))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shop": shop, "menu": menu})
}

func (h *StorefrontHandler) PlaceOrder(c *gin.Context) {
	var input models.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid order: " + err.Error()})
		return
	}

	order, err := h.Orders.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder backs the receipt page the customer lands on after checkout.
func (h *StorefrontHandler) GetOrder(c *gin.Context) {
	order, err := h.Orders.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
