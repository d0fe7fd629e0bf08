package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var AllOrderStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled}

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
}

func (s OrderStatus) Valid() bool {
	for _, st := range AllOrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransition reports whether the kitchen workflow allows moving from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, st := range orderTransitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// LineItem is the checkout snapshot of a menu item. It is never linked back to the menu.
type LineItem struct {
	Name      string        `bson:"name" json:"name" binding:"required"`
	Qty       int           `bson:"qty" json:"qty" binding:"required,gt=0"`
	Price     float64       `bson:"price" json:"price" binding:"gte=0"`
	Modifiers []OrderOption `bson:"modifiers" json:"modifiers"`
}

type OrderOption struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	Table     int                `bson:"table" json:"table"`
	Items     []LineItem         `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	Status    OrderStatus        `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
