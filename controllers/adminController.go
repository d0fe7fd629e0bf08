package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quisine/middleware"
	"quisine/models"
	"quisine/services"
	"quisine/utils"
)

// AdminController serves the dashboard of the authenticated shop. Every handler works on
// middleware.Tenant(c), never on a tenant id taken from the request.
type AdminController struct {
	Shops  services.ShopService
	Menus  services.MenuService
	Orders services.OrderService
	Stats  services.StatsService
}

func NewAdminController(shops services.ShopService, menus services.MenuService, orders services.OrderService, stats services.StatsService) *AdminController {
	return &AdminController{Shops: shops, Menus: menus, Orders: orders, Stats: stats}
}

func (ac *AdminController) GetShopInfo(c *gin.Context) {
	shop, err := ac.Shops.GetInfo(c.Request.Context(), middleware.Tenant(c))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

// UpdateShopInfo accepts the settings form with optional "logo" and "cover" files.
func (ac *AdminController) UpdateShopInfo(c *gin.Context) {
	logo, err := readImage(c, "logo")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	cover, err := readImage(c, "cover")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	update := models.ShopProfileUpdate{
		ShopName:       optionalForm(c, "shopname"),
		Address:        optionalForm(c, "address"),
		ContactPhone:   optionalForm(c, "contactphone"),
		PrimaryColor:   optionalForm(c, "primarycolor"),
		SecondaryColor: optionalForm(c, "secondarycolor"),
	}
	shop, err := ac.Shops.UpdateInfo(c.Request.Context(), middleware.Tenant(c), update, services.ShopImages{Logo: logo, Cover: cover})
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (ac *AdminController) GetStaff(c *gin.Context) {
	staff, err := ac.Shops.ListStaff(c.Request.Context(), middleware.Tenant(c))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (ac *AdminController) AddStaff(c *gin.Context) {
	var input models.StaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if !sameTenant(c, input.UserID) {
		return
	}

	staff, err := ac.Shops.AddStaff(c.Request.Context(), middleware.Tenant(c), input)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (ac *AdminController) DeleteStaff(c *gin.Context) {
	if err := ac.Shops.RemoveStaff(c.Request.Context(), middleware.Tenant(c), c.Param("staffId")); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Staff deleted"})
}
