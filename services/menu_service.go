package services

import (
	"context"
	"strings"

	"quisine/models"
	"quisine/repository"
	"quisine/storage"
	"quisine/utils"
)

const menuImageFolder = "menu"

type MenuService interface {
	GetMenu(ctx context.Context, tenantID string) (*models.Menu, error)
	AddCategory(ctx context.Context, tenantID, name, description string) (*models.Menu, error)
	DeleteCategory(ctx context.Context, tenantID, categoryID string) error
	AddItem(ctx context.Context, tenantID, categoryID string, f models.ItemFields, img *models.ImageUpload) (*models.Item, error)
	UpdateItem(ctx context.Context, tenantID, categoryID, itemID string, u models.ItemUpdate, img *models.ImageUpload) (*models.Item, error)
	DeleteItem(ctx context.Context, tenantID, categoryID, itemID string) error
	SetAvailability(ctx context.Context, tenantID, categoryID, itemID string, available bool) error
}

type menuService struct {
	menus  repository.MenuRepository
	images storage.ImageStore
}

func NewMenuService(menus repository.MenuRepository, images storage.ImageStore) MenuService {
	return &menuService{menus: menus, images: images}
}

func (s *menuService) GetMenu(ctx context.Context, tenantID string) (*models.Menu, error) {
	return s.menus.GetOrCreate(ctx, tenantID)
}

func (s *menuService) AddCategory(ctx context.Context, tenantID, name, description string) (*models.Menu, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.Invalid("Category name is required")
	}
	menu, err := s.menus.AddCategory(ctx, tenantID, models.NewCategory(name, strings.TrimSpace(description)))
	if err != nil {
		return nil, notFound(err, "Menu not found")
	}
	return menu, nil
}

func (s *menuService) DeleteCategory(ctx context.Context, tenantID, categoryID string) error {
	catID, err := parseID(categoryID, "category")
	if err != nil {
		return err
	}
	return s.menus.DeleteCategory(ctx, tenantID, catID)
}

func validateItem(name string, basePrice float64, prepTime int) error {
	if strings.TrimSpace(name) == "" {
		return utils.Invalid("Item name is required")
	}
	if basePrice < 0 {
		return utils.Invalid("Price cannot be negative")
	}
	if prepTime < 0 {
		return utils.Invalid("Preparation time cannot be negative")
	}
	return nil
}

// AddItem stores the image before touching the menu so a failed upload leaves the menu as it was.
func (s *menuService) AddItem(ctx context.Context, tenantID, categoryID string, f models.ItemFields, img *models.ImageUpload) (*models.Item, error) {
	catID, err := parseID(categoryID, "category")
	if err != nil {
		return nil, err
	}
	if err := validateItem(f.Name, f.BasePrice, f.Time); err != nil {
		return nil, err
	}

	ref, err := uploadOptional(ctx, s.images, menuImageFolder, img)
	if err != nil {
		return nil, err
	}
	item := models.NewItem(f, ref)
	if err := s.menus.AddItem(ctx, tenantID, catID, item); err != nil {
		discardImage(s.images, ref)
		return nil, notFound(err, "Category not found")
	}
	return &item, nil
}

func (s *menuService) UpdateItem(ctx context.Context, tenantID, categoryID, itemID string, u models.ItemUpdate, img *models.ImageUpload) (*models.Item, error) {
	catID, err := parseID(categoryID, "category")
	if err != nil {
		return nil, err
	}
	id, err := parseID(itemID, "item")
	if err != nil {
		return nil, err
	}
	if err := validateItem(u.Name, u.BasePrice, u.Time); err != nil {
		return nil, err
	}

	current, err := s.menus.FindItem(ctx, tenantID, catID, id)
	if err != nil {
		return nil, notFound(err, "Item not found")
	}

	ref, err := uploadOptional(ctx, s.images, menuImageFolder, img)
	if err != nil {
		return nil, err
	}
	u.Img = nil
	if ref != "" {
		u.Img = &ref
	}
	if u.Modifiers != nil {
		u.Modifiers = models.WithModifierIDs(u.Modifiers)
	}

	if err := s.menus.UpdateItem(ctx, tenantID, catID, id, u); err != nil {
		discardImage(s.images, ref)
		return nil, notFound(err, "Item not found")
	}
	if ref != "" && current.Img != ref {
		discardImage(s.images, current.Img)
	}

	updated, err := s.menus.FindItem(ctx, tenantID, catID, id)
	if err != nil {
		return nil, notFound(err, "Item not found")
	}
	return updated, nil
}

func (s *menuService) DeleteItem(ctx context.Context, tenantID, categoryID, itemID string) error {
	catID, err := parseID(categoryID, "category")
	if err != nil {
		return err
	}
	id, err := parseID(itemID, "item")
	if err != nil {
		return err
	}
	return s.menus.DeleteItem(ctx, tenantID, catID, id)
}

func (s *menuService) SetAvailability(ctx context.Context, tenantID, categoryID, itemID string, available bool) error {
	catID, err := parseID(categoryID, "category")
	if err != nil {
		return err
	}
	id, err := parseID(itemID, "item")
	if err != nil {
		return err
	}
	if err := s.menus.SetItemAvailability(ctx, tenantID, catID, id, available); err != nil {
		return notFound(err, "Item not found")
	}
	return nil
}
