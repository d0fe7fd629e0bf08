package routes

import (
	"github.com/gin-gonic/gin"

	"quisine/controllers"
	"quisine/handlers"
	"quisine/middleware"
	"quisine/utils"
)

type Deps struct {
	Auth       *controllers.AuthController
	Admin      *controllers.AdminController
	Storefront *handlers.StorefrontHandler
	Tokens     *utils.TokenManager
}

func InitializeRoutes(router *gin.Engine, d Deps) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", d.Auth.Signup)
		auth.POST("/register", d.Auth.Signup)
		auth.POST("/login", d.Auth.Login)
		auth.GET("/menu/:shopId", d.Storefront.GetPublicMenu)
	}

	shop := router.Group("/shop")
	{
		shop.GET("/menu/:shopId", d.Storefront.GetPublicMenu)
		shop.POST("/order", d.Storefront.PlaceOrder)
		shop.GET("/order/:orderId", d.Storefront.GetOrder)
	}

	tenant := middleware.TenantParam("tenantId")
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.Tokens))
	{
		admin.GET("/info/:tenantId", tenant, d.Admin.GetShopInfo)
		admin.PUT("/info/:tenantId", tenant, d.Admin.UpdateShopInfo)

		admin.GET("/menu/:tenantId", tenant, d.Admin.GetMenu)
		admin.POST("/category", d.Admin.AddCategory)
		admin.DELETE("/category/:categoryId", d.Admin.DeleteCategory)
		admin.POST("/category/:categoryId/item", d.Admin.AddItem)
		admin.PUT("/category/:categoryId/item/:itemId", d.Admin.UpdateItem)
		admin.DELETE("/category/:categoryId/item/:itemId", d.Admin.DeleteItem)
		admin.PATCH("/category/:categoryId/item/:itemId/availability", d.Admin.ToggleAvailability)

		admin.GET("/orders/:tenantId", tenant, d.Admin.GetOrders)
		admin.PATCH("/order/:orderId/status", d.Admin.UpdateOrderStatus)
		admin.DELETE("/order/:orderId", d.Admin.DeleteOrder)

		admin.GET("/stats/:tenantId", tenant, d.Admin.GetStats)
		admin.GET("/expenses/:tenantId", tenant, d.Admin.GetExpenses)
		admin.POST("/expense", d.Admin.AddExpense)

		admin.GET("/staff/:tenantId", tenant, d.Admin.GetStaff)
		admin.POST("/staff", d.Admin.AddStaff)
		admin.DELETE("/staff/:tenantId/:staffId", tenant, d.Admin.DeleteStaff)
	}
}
