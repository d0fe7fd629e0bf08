package models

import "time"

// Request payloads bound by the gin controllers.

type SignupInput struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"cpassword"`
	Phone           string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type CategoryInput struct {
	UserID      string `json:"userId"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type AvailabilityInput struct {
	Available *bool `json:"available" binding:"required"`
}

type PlaceOrderInput struct {
	ShopID string      `json:"shopId" binding:"required"`
	Table  TableNumber `json:"table" binding:"gte=0"`
	Items  []LineItem  `json:"items" binding:"required,min=1,dive"`
	Total  *float64    `json:"total" binding:"required,gte=0"`
}

type OrderStatusInput struct {
	Status OrderStatus `json:"status" binding:"required"`
}

type ExpenseInput struct {
	UserID   string          `json:"userId"`
	Title    string          `json:"title" binding:"required"`
	Amount   *Amount         `json:"amount" binding:"required,gte=0"`
	Category ExpenseCategory `json:"category"`
	Date     DateInput       `json:"date"`
}

type StaffInput struct {
	UserID string    `json:"userId"`
	Name   string    `json:"name" binding:"required"`
	Pin    string    `json:"pin" binding:"required"`
	Role   StaffRole `json:"role"`
}

// ImageUpload is an image read from a multipart field, ready for the image store.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
