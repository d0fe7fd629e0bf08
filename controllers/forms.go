package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"quisine/middleware"
	"quisine/models"
	"quisine/utils"
)

const maxUploadBytes = 5 << 20

// readImage returns the uploaded file of field, or nil when the form has none.
func readImage(c *gin.Context, field string) (*models.ImageUpload, error) {
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.Invalid("Invalid %s upload", field)
	}
	if file.Size > maxUploadBytes {
		return nil, utils.Invalid("file size exceeds the 5MB limit")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &models.ImageUpload{Filename: file.Filename, ContentType: contentType, Data: data}, nil
}

func formFloat(c *gin.Context, key string) (float64, error) {
	v := strings.TrimSpace(c.PostForm(key))
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, utils.Invalid("%s must be a number", key)
	}
	return f, nil
}

func formInt(c *gin.Context, key string) (int, error) {
	v := strings.TrimSpace(c.PostForm(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, utils.Invalid("%s must be a whole number", key)
	}
	return n, nil
}

// formModifiers decodes the JSON "modifiers" field. present is false when the form omits it.
func formModifiers(c *gin.Context) (mods []models.Modifier, present bool, err error) {
	raw, ok := c.GetPostForm("modifiers")
	if !ok {
		return nil, false, nil
	}
	mods = []models.Modifier{}
	if strings.TrimSpace(raw) == "" {
		return mods, true, nil
	}
	if err := json.Unmarshal([]byte(raw), &mods); err != nil {
		return nil, true, utils.Invalid("modifiers must be a JSON array")
	}
	return mods, true, nil
}

// itemForm reads the menu editor's multipart item form.
func itemForm(c *gin.Context) (models.ItemFields, bool, error) {
	price, err := formFloat(c, "baseprice")
	if err != nil {
		return models.ItemFields{}, false, err
	}
	prep, err := formInt(c, "time")
	if err != nil {
		return models.ItemFields{}, false, err
	}
	mods, present, err := formModifiers(c)
	if err != nil {
		return models.ItemFields{}, false, err
	}
	return models.ItemFields{
		Name:        strings.TrimSpace(c.PostForm("name")),
		BasePrice:   price,
		Description: c.PostForm("description"),
		Time:        prep,
		Modifiers:   mods,
	}, present, nil
}

// optionalForm returns a pointer to the field value when the form carries the key.
func optionalForm(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

// sameTenant rejects a body that names another shop than the authenticated one.
func sameTenant(c *gin.Context, bodyTenant string) bool {
	if bodyTenant != "" && bodyTenant != middleware.Tenant(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Access to this shop is not allowed"})
		return false
	}
	return true
}

func bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"msg": "Invalid request payload: " + err.Error()})
}
