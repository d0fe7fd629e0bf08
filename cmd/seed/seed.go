package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"quisine/models"
	"quisine/repository"
	"quisine/services"
	"quisine/utils"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Shops []seedShop `yaml:"shops"`
}

type seedShop struct {
	Username       string         `yaml:"username"`
	Email          string         `yaml:"email"`
	Password       string         `yaml:"password"`
	Phone          string         `yaml:"phone"`
	Address        string         `yaml:"address"`
	PrimaryColor   string         `yaml:"primarycolor"`
	SecondaryColor string         `yaml:"secondarycolor"`
	Staff          []seedStaff    `yaml:"staff"`
	Menu           []seedCategory `yaml:"menu"`
	Orders         []seedOrder    `yaml:"orders"`
	Expenses       []seedExpense  `yaml:"expenses"`
}

type seedStaff struct {
	Name string `yaml:"name"`
	Pin  string `yaml:"pin"`
	Role string `yaml:"role"`
}

type seedCategory struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Items       []seedItem `yaml:"items"`
}

type seedItem struct {
	Name        string         `yaml:"name"`
	BasePrice   float64        `yaml:"baseprice"`
	Description string         `yaml:"description"`
	Time        int            `yaml:"time"`
	Modifiers   []seedModifier `yaml:"modifiers"`
}

type seedModifier struct {
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

type seedOrder struct {
	Table   int            `yaml:"table"`
	DaysAgo int            `yaml:"daysago"`
	Status  string         `yaml:"status"`
	Items   []seedLineItem `yaml:"items"`
}

type seedLineItem struct {
	Name  string  `yaml:"name"`
	Qty   int     `yaml:"qty"`
	Price float64 `yaml:"price"`
}

type seedExpense struct {
	Title    string  `yaml:"title"`
	Amount   float64 `yaml:"amount"`
	Category string  `yaml:"category"`
	DaysAgo  int     `yaml:"daysago"`
}

func parseSeed(data []byte) (*seedFile, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, s := range f.Shops {
		if s.Email == "" || s.Password == "" {
			return nil, fmt.Errorf("seed shop %d: email and password are required", i)
		}
	}
	return &f, nil
}

type seeder struct {
	store *repository.Store
	shops services.ShopService
	menus services.MenuService
	stats services.StatsService
	now   time.Time
}

// apply creates every shop that does not exist yet and returns how many were created.
// Shops already registered under the same email are left alone.
func (s *seeder) apply(ctx context.Context, f *seedFile) (int, error) {
	created := 0
	for _, shop := range f.Shops {
		ok, err := s.applyShop(ctx, shop)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", shop.Email, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (s *seeder) applyShop(ctx context.Context, in seedShop) (bool, error) {
	email := strings.ToLower(in.Email)
	if _, err := s.store.Shops.FindByEmail(ctx, email); err == nil {
		utils.LogInfo("shop already seeded", map[string]interface{}{"email": email})
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	shop, err := s.shops.Signup(ctx, models.SignupInput{
		Username: in.Username,
		Email:    email,
		Password: in.Password,
		Phone:    in.Phone,
	})
	if err != nil {
		return false, err
	}
	tenant := shop.UserID

	update := models.ShopProfileUpdate{}
	if in.Address != "" {
		update.Address = &in.Address
	}
	if in.PrimaryColor != "" {
		update.PrimaryColor = &in.PrimaryColor
	}
	if in.SecondaryColor != "" {
		update.SecondaryColor = &in.SecondaryColor
	}
	if !update.Empty() {
		if _, err := s.shops.UpdateInfo(ctx, tenant, update, services.ShopImages{}); err != nil {
			return false, err
		}
	}

	for _, st := range in.Staff {
		input := models.StaffInput{Name: st.Name, Pin: st.Pin, Role: models.StaffRole(st.Role)}
		if _, err := s.shops.AddStaff(ctx, tenant, input); err != nil {
			return false, err
		}
	}

	for _, cat := range in.Menu {
		if err := s.applyCategory(ctx, tenant, cat); err != nil {
			return false, err
		}
	}

	for _, o := range in.Orders {
		if err := s.store.Orders.Create(ctx, s.order(tenant, o)); err != nil {
			return false, err
		}
	}

	for _, e := range in.Expenses {
		date := s.now.AddDate(0, 0, -e.DaysAgo)
		amount := models.Amount(e.Amount)
		_, err := s.stats.AddExpense(ctx, tenant, models.ExpenseInput{
			Title:    e.Title,
			Amount:   &amount,
			Category: models.ExpenseCategory(e.Category),
			Date:     models.DateInput(date.Format(time.RFC3339)),
		})
		if err != nil {
			return false, err
		}
	}

	utils.LogInfo("shop seeded", map[string]interface{}{"email": email, "userId": tenant})
	return true, nil
}

func (s *seeder) applyCategory(ctx context.Context, tenant string, cat seedCategory) error {
	menu, err := s.menus.AddCategory(ctx, tenant, cat.Name, cat.Description)
	if err != nil {
		return err
	}
	// AddCategory appends, so the new category is the last one.
	categoryID := menu.Categories[len(menu.Categories)-1].ID.Hex()

	for _, it := range cat.Items {
		mods := make([]models.Modifier, 0, len(it.Modifiers))
		for _, m := range it.Modifiers {
			mods = append(mods, models.Modifier{Name: m.Name, Price: m.Price})
		}
		fields := models.ItemFields{
			Name:        it.Name,
			BasePrice:   it.BasePrice,
			Description: it.Description,
			Time:        it.Time,
			Modifiers:   mods,
		}
		if _, err := s.menus.AddItem(ctx, tenant, categoryID, fields, nil); err != nil {
			return err
		}
	}
	return nil
}

// order writes history directly through the repository so orders can be backdated
// and placed in any status.
func (s *seeder) order(tenant string, o seedOrder) *models.Order {
	at := s.now.AddDate(0, 0, -o.DaysAgo)
	status := models.OrderStatus(o.Status)
	if !status.Valid() {
		status = models.StatusPending
	}

	items := make([]models.LineItem, 0, len(o.Items))
	total := 0.0
	for _, li := range o.Items {
		items = append(items, models.LineItem{Name: li.Name, Qty: li.Qty, Price: li.Price, Modifiers: []models.OrderOption{}})
		total += float64(li.Qty) * li.Price
	}
	return &models.Order{
		UserID:    tenant,
		Table:     o.Table,
		Items:     items,
		Total:     total,
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
}
