// Package repository persists shops, menus, orders and expenses. Two drivers implement the
// same interfaces: MongoDB for deployments and an in-memory store for local runs and tests.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quisine/models"
	"quisine/utils"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = utils.ErrNotFound

	// ErrDuplicateKey is returned when a write violates a uniqueness rule
	// (shop email, tenant id, staff PIN).
	ErrDuplicateKey = errors.New("duplicate key")
)

type ShopRepository interface {
	Create(ctx context.Context, shop *models.Shop) error
	DeleteByTenant(ctx context.Context, tenantID string) error
	FindByTenant(ctx context.Context, tenantID string) (*models.Shop, error)
	FindByEmail(ctx context.Context, email string) (*models.Shop, error)
	UpdateProfile(ctx context.Context, tenantID string, u models.ShopProfileUpdate) (*models.Shop, error)
	// AddStaff appends a staff member unless the PIN is already used in that shop.
	AddStaff(ctx context.Context, tenantID string, staff models.Staff) ([]models.Staff, error)
	RemoveStaff(ctx context.Context, tenantID string, staffID primitive.ObjectID) error
}

// MenuRepository mutates the nested menu document one sub-document at a time.
// No method rewrites the whole document.
type MenuRepository interface {
	Create(ctx context.Context, menu *models.Menu) error
	DeleteByTenant(ctx context.Context, tenantID string) error
	FindByTenant(ctx context.Context, tenantID string) (*models.Menu, error)
	GetOrCreate(ctx context.Context, tenantID string) (*models.Menu, error)
	AddCategory(ctx context.Context, tenantID string, cat models.Category) (*models.Menu, error)
	DeleteCategory(ctx context.Context, tenantID string, categoryID primitive.ObjectID) error
	AddItem(ctx context.Context, tenantID string, categoryID primitive.ObjectID, item models.Item) error
	FindItem(ctx context.Context, tenantID string, categoryID, itemID primitive.ObjectID) (*models.Item, error)
	UpdateItem(ctx context.Context, tenantID string, categoryID, itemID primitive.ObjectID, u models.ItemUpdate) error
	DeleteItem(ctx context.Context, tenantID string, categoryID, itemID primitive.ObjectID) error
	SetItemAvailability(ctx context.Context, tenantID string, categoryID, itemID primitive.ObjectID, available bool) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByTenant(ctx context.Context, tenantID string) ([]models.Order, error)
	// CompareAndSetStatus moves the order to `to` only if it is still in `from`.
	CompareAndSetStatus(ctx context.Context, tenantID string, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (*models.Order, error)
	Delete(ctx context.Context, tenantID string, id primitive.ObjectID) error
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)

	RevenueSummary(ctx context.Context, tenantID string) (float64, int64, error)
	DailyRevenue(ctx context.Context, tenantID string, since time.Time, loc *time.Location) ([]models.DailyRevenue, error)
	TopItems(ctx context.Context, tenantID string, limit int) ([]models.TopItem, error)
}

type ExpenseRepository interface {
	Create(ctx context.Context, e *models.Expense) error
	ListRecent(ctx context.Context, tenantID string, limit int64) ([]models.Expense, error)
	Total(ctx context.Context, tenantID string) (float64, error)
	ByCategory(ctx context.Context, tenantID string) ([]models.ExpenseSlice, error)
}

// Transactor runs fn atomically when the backing store supports multi-document
// transactions. Callers must check Supported and fall back to compensation otherwise.
type Transactor interface {
	Supported() bool
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Store struct {
	Shops    ShopRepository
	Menus    MenuRepository
	Orders   OrderRepository
	Expenses ExpenseRepository
	Tx       Transactor
}
