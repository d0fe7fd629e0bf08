package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quisine/middleware"
	"quisine/models"
	"quisine/utils"
)

// GetMenu returns the shop's menu, creating an empty one on first use.
func (ac *AdminController) GetMenu(c *gin.Context) {
	menu, err := ac.Menus.GetMenu(c.Request.Context(), middleware.Tenant(c))
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (ac *AdminController) AddCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if !sameTenant(c, input.UserID) {
		return
	}

	menu, err := ac.Menus.AddCategory(c.Request.Context(), middleware.Tenant(c), input.Name, input.Description)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (ac *AdminController) DeleteCategory(c *gin.Context) {
	if err := ac.Menus.DeleteCategory(c.Request.Context(), middleware.Tenant(c), c.Param("categoryId")); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Category deleted"})
}

// AddItem takes a multipart form: name, baseprice, description, time, modifiers (JSON) and
// an optional "image" file.
func (ac *AdminController) AddItem(c *gin.Context) {
	fields, _, err := itemForm(c)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	img, err := readImage(c, "image")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	item, err := ac.Menus.AddItem(c.Request.Context(), middleware.Tenant(c), c.Param("categoryId"), fields, img)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Item added", "item": item})
}

// UpdateItem keeps the current image unless a new "image" file is sent, and the current
// modifiers unless the form carries a "modifiers" field.
func (ac *AdminController) UpdateItem(c *gin.Context) {
	fields, modsPresent, err := itemForm(c)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	img, err := readImage(c, "image")
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	update := models.ItemUpdate{
		Name:        fields.Name,
		BasePrice:   fields.BasePrice,
		Description: fields.Description,
		Time:        fields.Time,
	}
	if modsPresent {
		update.Modifiers = fields.Modifiers
	}
	item, err := ac.Menus.UpdateItem(c.Request.Context(), middleware.Tenant(c), c.Param("categoryId"), c.Param("itemId"), update, img)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Item updated", "item": item})
}

func (ac *AdminController) DeleteItem(c *gin.Context) {
	if err := ac.Menus.DeleteItem(c.Request.Context(), middleware.Tenant(c), c.Param("categoryId"), c.Param("itemId")); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Item deleted"})
}

func (ac *AdminController) ToggleAvailability(c *gin.Context) {
	var input models.AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	err := ac.Menus.SetAvailability(c.Request.Context(), middleware.Tenant(c), c.Param("categoryId"), c.Param("itemId"), *input.Available)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Availability updated"})
}
