package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quisine/models"
	"quisine/utils"
)

func TestAddCategoryAppendsEmptyCategory(t *testing.T) {
	svc, _, _ := newMenu(t, "t1")
	ctx := context.Background()

	first, err := svc.AddCategory(ctx, "t1", "Burgers", "")
	require.NoError(t, err)
	menu, err := svc.AddCategory(ctx, "t1", "Drinks", "Cold")
	require.NoError(t, err)

	require.Len(t, first.Categories, 1)
	require.Len(t, menu.Categories, 2)
	last := menu.Categories[1]
	assert.Equal(t, "Drinks", last.Name)
	assert.False(t, last.ID.IsZero())
	assert.Empty(t, last.Items)
	assert.NotEqual(t, menu.Categories[0].ID, last.ID)
}

func TestAddCategoryRequiresName(t *testing.T) {
	svc, _, _ := newMenu(t, "t1")

	_, err := svc.AddCategory(context.Background(), "t1", "  ", "")

	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestAddCategoryWithoutMenu(t *testing.T) {
	svc, _, _ := newMenu(t, "t1")

	_, err := svc.AddCategory(context.Background(), "other", "Burgers", "")

	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDeleteCategoryIsIdempotent(t *testing.T) {
	svc, _, _ := newMenu(t, "t1")
	ctx := context.Background()
	menu, err := svc.AddCategory(ctx, "t1", "Burgers", "")
	require.NoError(t, err)
	catID := menu.Categories[0].ID.Hex()

	require.NoError(t, svc.DeleteCategory(ctx, "t1", catID))
	require.NoError(t, svc.DeleteCategory(ctx, "t1", catID))

	menu, err = svc.GetMenu(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, menu.Categories)
}

func TestSameNameItemsAreIndependentAcrossCategories(t *testing.T) {
	svc, _, _ := newMenu(t, "t1")
	ctx := context.Background()
	_, err := svc.AddCategory(ctx, "t1", "Lunch", "")
	require.NoError(t, err)
	menu, err := svc.AddCategory(ctx, "t1", "Dinner", "")
	require.NoError(t, err)
	lunch, dinner := menu.Categories[0].ID.Hex(), menu.Categories[1].ID.Hex()

	a, err := svc.AddItem(ctx, "t1", lunch, models.ItemFields{Name: "Burger", BasePrice: 10}, nil)
	require.NoError(t, err)
	b, err := svc.AddItem(ctx, "t1", dinner, models.ItemFields{Name: "Burger", BasePrice: 14}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.SetAvailability(ctx, "t1", lunch, a.ID.Hex(), false))
	_, err = svc.UpdateItem(ctx, "t1", lunch, a.ID.Hex(), models.ItemUpdate{Name: "Burger", BasePrice: 11}, nil)
	require.NoError(t, err)

	menu, err = svc.GetMenu(ctx, "t1")
	require.NoError(t, err)
	gotA, ok := menu.FindItem(menu.Categories[0].ID, a.ID)
	require.True(t, ok)
	gotB, ok := menu.FindItem(menu.Categories[1].ID, b.ID)
	require.True(t, ok)

	assert.False(t, gotA.Available)
	assert.Equal(t, float64(11), gotA.BasePrice)
	assert.True(t, gotB.Available)
	assert.Equal(t, float64(14), gotB.BasePrice)
}

func TestAddItemUploadsImageFirst(t *testing.T) {
	svc, images, _ := newMenu(t, "t1")
	ctx := context.Background()
	menu, err := svc.AddCategory(ctx, "t1", "Burgers", "")
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, "t1", menu.Categories[0].ID.Hex(),
		models.ItemFields{Name: "Burger", BasePrice: 12, Modifiers: []models.Modifier{{Name: "Cheese", Price: 1}}},
		&models.ImageUpload{Filename: "burger.jpg", ContentType: "image/jpeg"})
	require.NoError(t, err)

	assert.Equal(t, images.uploaded[0], item.Img)
	assert.True(t, item.Available)
	require.Len(t, item.Modifiers, 1)
	assert.False(t, item.Modifiers[0].ID.IsZero())
}

func TestAddItemUploadFailureLeavesMenuUntouched(t *testing.T) {
	svc, images, _ := newMenu(t, "t1")
	ctx := context.Background()
	menu, err := svc.AddCategory(ctx, "t1", "Burgers", "")
	require.NoError(t, err)
	images.fail = errors.New("bucket unavailable")

	_, err = svc.AddItem(ctx, "t1", menu.Categories[0].ID.Hex(), models.ItemFields{Name: "Burger"},
		&models.ImageUpload{Filename: "burger.jpg"})
	require.Error(t, err)

	menu, err = svc.GetMenu(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, menu.Categories[0].Items)
}

func TestAddItemUnknownCategoryDiscardsUpload(t *testing.T) {
	svc, images, _ := newMenu(t, "t1")

	_, err := svc.AddItem(context.Background(), "t1", primitive.NewObjectID().Hex(), models.ItemFields{Name: "Burger"},
		&models.ImageUpload{Filename: "burger.jpg"})

	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.Equal(t, images.uploaded, images.removedRefs())
}

func TestUpdateItemSwapsImage(t *testing.T) {
	svc, images, _ := newMenu(t, "t1")
	ctx := context.Background()
	menu, err := svc.AddCategory(ctx, "t1", "Burgers", "")
	require.NoError(t, err)
	catID := menu.Categories[0].ID.Hex()
	item, err := svc.AddItem(ctx, "t1", catID, models.ItemFields{Name: "Burger"}, &models.ImageUpload{Filename: "old.jpg"})
	require.NoError(t, err)

	// Without a new image the reference stays.
	kept, err := svc.UpdateItem(ctx, "t1", catID, item.ID.Hex(), models.ItemUpdate{Name: "Burger", BasePrice: 9}, nil)
	require.NoError(t, err)
	assert.Equal(t, item.Img, kept.Img)

	swapped, err := svc.UpdateItem(ctx, "t1", catID, item.ID.Hex(), models.ItemUpdate{Name: "Burger", BasePrice: 9},
		&models.ImageUpload{Filename: "new.jpg"})
	require.NoError(t, err)
	assert.NotEqual(t, item.Img, swapped.Img)
	assert.Equal(t, []string{item.Img}, images.removedRefs())
}

func TestUpdateItemUnknownPair(t *testing.T) {
	svc, _, _ := newMenu(t, "t1")
	ctx := context.Background()
	menu, err := svc.AddCategory(ctx, "t1", "Burgers", "")
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, "t1", menu.Categories[0].ID.Hex(), primitive.NewObjectID().Hex(), models.ItemUpdate{Name: "x"}, nil)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.UpdateItem(ctx, "t1", "not-an-id", primitive.NewObjectID().Hex(), models.ItemUpdate{Name: "x"}, nil)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestToggleAvailabilityIsIdempotentAndLastWriteWins(t *testing.T) {
	svc, _, _ := newMenu(t, "t1")
	ctx := context.Background()
	menu, err := svc.AddCategory(ctx, "t1", "Burgers", "")
	require.NoError(t, err)
	catID := menu.Categories[0].ID
	item, err := svc.AddItem(ctx, "t1", catID.Hex(), models.ItemFields{Name: "Burger"}, nil)
	require.NoError(t, err)

	availability := func() bool {
		m, err := svc.GetMenu(ctx, "t1")
		require.NoError(t, err)
		it, ok := m.FindItem(catID, item.ID)
		require.True(t, ok)
		return it.Available
	}

	require.NoError(t, svc.SetAvailability(ctx, "t1", catID.Hex(), item.ID.Hex(), false))
	require.NoError(t, svc.SetAvailability(ctx, "t1", catID.Hex(), item.ID.Hex(), false))
	assert.False(t, availability())

	require.NoError(t, svc.SetAvailability(ctx, "t1", catID.Hex(), item.ID.Hex(), true))
	assert.True(t, availability())

	err = svc.SetAvailability(ctx, "t1", catID.Hex(), primitive.NewObjectID().Hex(), true)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDeleteItemIsIdempotent(t *testing.T) {
	svc, _, _ := newMenu(t, "t1")
	ctx := context.Background()
	menu, err := svc.AddCategory(ctx, "t1", "Burgers", "")
	require.NoError(t, err)
	catID := menu.Categories[0].ID.Hex()
	item, err := svc.AddItem(ctx, "t1", catID, models.ItemFields{Name: "Burger"}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, "t1", catID, item.ID.Hex()))
	require.NoError(t, svc.DeleteItem(ctx, "t1", catID, item.ID.Hex()))

	menu, err = svc.GetMenu(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, menu.Categories[0].Items)
}

func TestAddItemValidation(t *testing.T) {
	svc, _, _ := newMenu(t, "t1")
	ctx := context.Background()
	menu, err := svc.AddCategory(ctx, "t1", "Burgers", "")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "t1", menu.Categories[0].ID.Hex(), models.ItemFields{Name: "Burger", BasePrice: -1}, nil)
	assert.ErrorIs(t, err, utils.ErrValidation)
}
