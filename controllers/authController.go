package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quisine/models"
	"quisine/services"
	"quisine/utils"
)

type AuthController struct {
	Shops services.ShopService
}

func NewAuthController(shops services.ShopService) *AuthController {
	return &AuthController{Shops: shops}
}

// Signup registers a shop owner and creates the shop together with its empty menu.
func (ac *AuthController) Signup(c *gin.Context) {
	var input models.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if _, err := ac.Shops.Signup(c.Request.Context(), input); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Account created successfully"})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials"})
		return
	}

	res, err := ac.Shops.Login(c.Request.Context(), input)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
