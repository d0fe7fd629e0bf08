package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quisine/models"
	"quisine/repository"
	"quisine/utils"
)

func newShops(t *testing.T) (ShopService, *repository.Store, *fakeImages) {
	t.Helper()
	store := repository.NewMemoryStore()
	images := &fakeImages{}
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	return NewShopService(store, images, tokens, utils.NewMailer("", 0, "", "", "")), store, images
}

func signup(t *testing.T, svc ShopService, email string) *models.Shop {
	t.Helper()
	shop, err := svc.Signup(context.Background(), models.SignupInput{
		Username: "Bun & Beef", Email: email, Password: "secret1", ConfirmPassword: "secret1", Phone: "+216 20 000 000",
	})
	require.NoError(t, err)
	return shop
}

func TestSignupCreatesShopAndEmptyMenu(t *testing.T) {
	svc, store, _ := newShops(t)
	ctx := context.Background()

	shop := signup(t, svc, "owner@bunbeef.tn")

	assert.NotEmpty(t, shop.UserID)
	assert.NotEqual(t, "secret1", shop.Password)
	menu, err := store.Menus.FindByTenant(ctx, shop.UserID)
	require.NoError(t, err)
	assert.Empty(t, menu.Categories)

	stored, err := store.Shops.FindByTenant(ctx, shop.UserID)
	require.NoError(t, err)
	assert.Equal(t, "owner@bunbeef.tn", stored.Email)
	assert.Equal(t, models.DefaultPrimaryColor, stored.PrimaryColor)
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newShops(t)
	ctx := context.Background()
	signup(t, svc, "taken@example.com")

	cases := map[string]models.SignupInput{
		"duplicate email": {Username: "x", Email: "Taken@example.com", Password: "secret1"},
		"short password":  {Username: "x", Email: "new@example.com", Password: "12345"},
		"mismatch":        {Username: "x", Email: "new@example.com", Password: "secret1", ConfirmPassword: "secret2"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Signup(ctx, in)
			assert.ErrorIs(t, err, utils.ErrValidation)
		})
	}
}

// recordingMenus remembers the tenant of every menu it creates.
type recordingMenus struct {
	repository.MenuRepository
	created []string
}

func (r *recordingMenus) Create(ctx context.Context, menu *models.Menu) error {
	r.created = append(r.created, menu.UserID)
	return r.MenuRepository.Create(ctx, menu)
}

// crashingShops simulates the process dying after the first signup write.
type crashingShops struct {
	repository.ShopRepository
}

func (crashingShops) Create(context.Context, *models.Shop) error {
	panic("process killed")
}

func TestSignupCrashLeavesNoShopWithoutMenu(t *testing.T) {
	store := repository.NewMemoryStore()
	menus := &recordingMenus{MenuRepository: store.Menus}
	crashing := *store
	crashing.Shops = crashingShops{store.Shops}
	crashing.Menus = menus
	svc := NewShopService(&crashing, &fakeImages{}, utils.NewTokenManager("s", time.Hour), nil)
	ctx := context.Background()

	assert.Panics(t, func() {
		_, _ = svc.Signup(ctx, models.SignupInput{Username: "a", Email: "a@example.com", Password: "secret1"})
	})

	require.Len(t, menus.created, 1)
	_, err := store.Menus.FindByTenant(ctx, menus.created[0])
	assert.NoError(t, err, "the orphan menu is the only leftover")
	_, err = store.Shops.FindByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// failingShops rejects every insert.
type failingShops struct {
	repository.ShopRepository
}

func (failingShops) Create(context.Context, *models.Shop) error {
	return errors.New("write concern error")
}

func TestSignupCompensatesFailedShopInsert(t *testing.T) {
	store := repository.NewMemoryStore()
	menus := &recordingMenus{MenuRepository: store.Menus}
	failing := *store
	failing.Shops = failingShops{store.Shops}
	failing.Menus = menus
	svc := NewShopService(&failing, &fakeImages{}, utils.NewTokenManager("s", time.Hour), nil)
	ctx := context.Background()

	_, err := svc.Signup(ctx, models.SignupInput{Username: "a", Email: "a@example.com", Password: "secret1"})
	require.Error(t, err)

	require.Len(t, menus.created, 1)
	_, err = store.Menus.FindByTenant(ctx, menus.created[0])
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// inlineTx pretends to be a transactional deployment and runs fn directly.
type inlineTx struct{ calls int }

func (tx *inlineTx) Supported() bool { return true }

func (tx *inlineTx) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

func TestSignupUsesTransactionWhenSupported(t *testing.T) {
	store := repository.NewMemoryStore()
	tx := &inlineTx{}
	store.Tx = tx
	svc := NewShopService(store, &fakeImages{}, utils.NewTokenManager("s", time.Hour), nil)

	shop := signup(t, svc, "tx@example.com")

	assert.Equal(t, 1, tx.calls)
	_, err := store.Menus.FindByTenant(context.Background(), shop.UserID)
	assert.NoError(t, err)
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _, _ := newShops(t)
	ctx := context.Background()
	shop := signup(t, svc, "owner@bunbeef.tn")

	res, err := svc.Login(ctx, models.LoginInput{Email: "owner@bunbeef.tn", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, shop.UserID, res.UserID)

	claims, err := utils.NewTokenManager("test-secret", time.Hour).ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, shop.UserID, claims.TenantID)

	_, err = svc.Login(ctx, models.LoginInput{Email: "owner@bunbeef.tn", Password: "wrong"})
	assert.ErrorIs(t, err, utils.ErrValidation)
	_, err = svc.Login(ctx, models.LoginInput{Email: "nobody@bunbeef.tn", Password: "secret1"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestUpdateInfoReplacesLogo(t *testing.T) {
	svc, _, images := newShops(t)
	ctx := context.Background()
	shop := signup(t, svc, "owner@bunbeef.tn")
	name := "Bun & Beef Lac 2"

	first, err := svc.UpdateInfo(ctx, shop.UserID, models.ShopProfileUpdate{ShopName: &name},
		ShopImages{Logo: &models.ImageUpload{Filename: "logo.png"}})
	require.NoError(t, err)
	assert.Equal(t, name, first.ShopName)
	assert.Equal(t, images.uploaded[0], first.Logo)

	second, err := svc.UpdateInfo(ctx, shop.UserID, models.ShopProfileUpdate{},
		ShopImages{Logo: &models.ImageUpload{Filename: "logo2.png"}})
	require.NoError(t, err)
	assert.Equal(t, images.uploaded[1], second.Logo)
	assert.Equal(t, name, second.ShopName)
	assert.Equal(t, []string{first.Logo}, images.removedRefs())
}

func TestPublicMenuHidesPrivateFields(t *testing.T) {
	svc, _, _ := newShops(t)
	ctx := context.Background()
	shop := signup(t, svc, "owner@bunbeef.tn")
	_, err := svc.AddStaff(ctx, shop.UserID, models.StaffInput{Name: "Sami", Pin: "1234"})
	require.NoError(t, err)

	public, menu, err := svc.PublicMenu(ctx, shop.UserID)
	require.NoError(t, err)

	assert.Empty(t, public.Email)
	assert.Empty(t, public.Password)
	assert.Nil(t, public.Staff)
	assert.Equal(t, shop.UserID, menu.UserID)

	_, _, err = svc.PublicMenu(ctx, "unknown")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestStaffManagement(t *testing.T) {
	svc, _, _ := newShops(t)
	ctx := context.Background()
	shop := signup(t, svc, "owner@bunbeef.tn")

	list, err := svc.AddStaff(ctx, shop.UserID, models.StaffInput{Name: "Sami", Pin: "1234", Role: models.RoleKitchen})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.RoleKitchen, list[0].Role)

	_, err = svc.AddStaff(ctx, shop.UserID, models.StaffInput{Name: "Lina", Pin: "1234"})
	assert.ErrorIs(t, err, utils.ErrValidation)
	_, err = svc.AddStaff(ctx, shop.UserID, models.StaffInput{Name: "Lina", Pin: "12a4"})
	assert.ErrorIs(t, err, utils.ErrValidation)
	_, err = svc.AddStaff(ctx, "unknown", models.StaffInput{Name: "Lina", Pin: "4321"})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	require.NoError(t, svc.RemoveStaff(ctx, shop.UserID, list[0].ID.Hex()))
	require.NoError(t, svc.RemoveStaff(ctx, shop.UserID, list[0].ID.Hex()))
	list, err = svc.ListStaff(ctx, shop.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)

	none, err := svc.ListStaff(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, []models.Staff{}, none)
}
