package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quisine/models"
	"quisine/repository"
	"quisine/storage"
	"quisine/utils"
)

const (
	minPasswordLength = 6
	shopImageFolder   = "shops"
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// ShopImages are the optional uploads of the settings form.
type ShopImages struct {
	Logo  *models.ImageUpload
	Cover *models.ImageUpload
}

type ShopService interface {
	Signup(ctx context.Context, in models.SignupInput) (*models.Shop, error)
	Login(ctx context.Context, in models.LoginInput) (*models.LoginResult, error)

	GetInfo(ctx context.Context, tenantID string) (*models.Shop, error)
	UpdateInfo(ctx context.Context, tenantID string, u models.ShopProfileUpdate, images ShopImages) (*models.Shop, error)
	PublicMenu(ctx context.Context, shopID string) (*models.Shop, *models.Menu, error)

	ListStaff(ctx context.Context, tenantID string) ([]models.Staff, error)
	AddStaff(ctx context.Context, tenantID string, in models.StaffInput) ([]models.Staff, error)
	RemoveStaff(ctx context.Context, tenantID, staffID string) error
}

type shopService struct {
	store  *repository.Store
	images storage.ImageStore
	tokens *utils.TokenManager
	mailer *utils.Mailer
	now    func() time.Time
}

func NewShopService(store *repository.Store, images storage.ImageStore, tokens *utils.TokenManager, mailer *utils.Mailer) ShopService {
	return &shopService{store: store, images: images, tokens: tokens, mailer: mailer, now: time.Now}
}

func (s *shopService) Signup(ctx context.Context, in models.SignupInput) (*models.Shop, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if username == "" || email == "" {
		return nil, utils.Invalid("Username and email are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, utils.Invalid("Password must be at least %d characters", minPasswordLength)
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		return nil, utils.Invalid("Passwords do not match")
	}

	if _, err := s.store.Shops.FindByEmail(ctx, email); err == nil {
		return nil, utils.Invalid("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	tenantID := uuid.NewString()
	shop := &models.Shop{
		UserID:         tenantID,
		Username:       username,
		Email:          email,
		Password:       hash,
		ShopName:       username,
		ContactPhone:   strings.TrimSpace(in.Phone),
		PrimaryColor:   models.DefaultPrimaryColor,
		SecondaryColor: models.DefaultSecondaryColor,
		Staff:          []models.Staff{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	menu := &models.Menu{UserID: tenantID, Categories: []models.Category{}}

	if s.store.Tx.Supported() {
		err = s.store.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.store.Menus.Create(txCtx, menu); err != nil {
				return err
			}
			return s.store.Shops.Create(txCtx, shop)
		})
	} else {
		err = s.createSaga(ctx, shop, menu)
	}
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, utils.Invalid("Email already exists")
	}
	if err != nil {
		return nil, err
	}

	utils.LogInfo("shop registered", map[string]interface{}{"userId": tenantID})
	s.sendWelcome(shop)
	return shop, nil
}

// createSaga writes the menu first so an interruption leaves at most an orphan menu, never a
// shop without one. A failed shop insert removes the menu again.
func (s *shopService) createSaga(ctx context.Context, shop *models.Shop, menu *models.Menu) error {
	if err := s.store.Menus.Create(ctx, menu); err != nil {
		return err
	}
	if err := s.store.Shops.Create(ctx, shop); err != nil {
		if cerr := s.store.Menus.DeleteByTenant(context.Background(), menu.UserID); cerr != nil {
			utils.LogError(cerr, "failed to remove menu of aborted signup")
		}
		return err
	}
	return nil
}

func (s *shopService) sendWelcome(shop *models.Shop) {
	if !s.mailer.Enabled() {
		return
	}
	subject, body := utils.WelcomeMail(shop.Username)
	go func(to string) {
		if err := s.mailer.SendEmail(to, subject, body); err != nil {
			utils.LogError(err, "welcome mail failed")
		}
	}(shop.Email)
}

func (s *shopService) Login(ctx context.Context, in models.LoginInput) (*models.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	shop, err := s.store.Shops.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.Invalid("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if err := utils.VerifyPassword(shop.Password, in.Password); err != nil {
		return nil, utils.Invalid("Invalid credentials")
	}

	token, expires, err := s.tokens.GenerateToken(shop.UserID, shop.Email)
	if err != nil {
		return nil, err
	}
	return &models.LoginResult{UserID: shop.UserID, Email: shop.Email, Token: token, ExpiresAt: expires}, nil
}

func (s *shopService) GetInfo(ctx context.Context, tenantID string) (*models.Shop, error) {
	shop, err := s.store.Shops.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, notFound(err, "Shop not found")
	}
	return shop, nil
}

// UpdateInfo uploads the new logo and cover first, applies the form, then drops the images
// they replaced.
func (s *shopService) UpdateInfo(ctx context.Context, tenantID string, u models.ShopProfileUpdate, images ShopImages) (*models.Shop, error) {
	current, err := s.GetInfo(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	logo, err := uploadOptional(ctx, s.images, shopImageFolder, images.Logo)
	if err != nil {
		return nil, err
	}
	cover, err := uploadOptional(ctx, s.images, shopImageFolder, images.Cover)
	if err != nil {
		discardImage(s.images, logo)
		return nil, err
	}
	if logo != "" {
		u.Logo = &logo
	}
	if cover != "" {
		u.Cover = &cover
	}
	if u.Empty() {
		return current, nil
	}

	updated, err := s.store.Shops.UpdateProfile(ctx, tenantID, u)
	if err != nil {
		discardImage(s.images, logo)
		discardImage(s.images, cover)
		return nil, notFound(err, "Shop not found")
	}
	if logo != "" && current.Logo != logo {
		discardImage(s.images, current.Logo)
	}
	if cover != "" && current.Cover != cover {
		discardImage(s.images, current.Cover)
	}
	return updated, nil
}

// PublicMenu returns the storefront view of a shop. A shop that never opened its menu editor
// gets an empty menu without one being created.
func (s *shopService) PublicMenu(ctx context.Context, shopID string) (*models.Shop, *models.Menu, error) {
	shop, err := s.store.Shops.FindByTenant(ctx, shopID)
	if err != nil {
		return nil, nil, notFound(err, "Shop not found")
	}
	public := shop.Public()

	menu, err := s.store.Menus.FindByTenant(ctx, shopID)
	if errors.Is(err, repository.ErrNotFound) {
		return &public, &models.Menu{UserID: shopID, Categories: []models.Category{}}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &public, menu, nil
}

func (s *shopService) ListStaff(ctx context.Context, tenantID string) ([]models.Staff, error) {
	shop, err := s.store.Shops.FindByTenant(ctx, tenantID)
	if errors.Is(err, repository.ErrNotFound) {
		return []models.Staff{}, nil
	}
	if err != nil {
		return nil, err
	}
	if shop.Staff == nil {
		return []models.Staff{}, nil
	}
	return shop.Staff, nil
}

func (s *shopService) AddStaff(ctx context.Context, tenantID string, in models.StaffInput) ([]models.Staff, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.Invalid("Name is required")
	}
	if !pinPattern.MatchString(in.Pin) {
		return nil, utils.Invalid("PIN must be 4 digits")
	}
	role := in.Role
	if role == "" {
		role = models.RoleWaiter
	}
	if !role.Valid() {
		return nil, utils.Invalid("Unknown role %q", role)
	}

	staff := models.Staff{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Pin:       in.Pin,
		Role:      role,
		CreatedAt: s.now(),
	}
	list, err := s.store.Shops.AddStaff(ctx, tenantID, staff)
	switch {
	case errors.Is(err, repository.ErrDuplicateKey):
		return nil, utils.Invalid("PIN already in use")
	case err != nil:
		return nil, notFound(err, "Shop not found")
	}
	return list, nil
}

func (s *shopService) RemoveStaff(ctx context.Context, tenantID, staffID string) error {
	id, err := parseID(staffID, "staff")
	if err != nil {
		return err
	}
	return s.store.Shops.RemoveStaff(ctx, tenantID, id)
}
